package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"askdocs/internal/memory"
	"askdocs/internal/rag"
)

const chatHelp = `Commands:
  /exit or /quit   end the session
  /memory          show persistent memory
  /reindex         rebuild the index from the source directory
  /help            show this message

Ask anything about your documents. Answers carry [source:...] citations.`

var (
	chatSourceDir string
	chatTopK      int
	chatRebuild   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session over the indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if chatSourceDir != "" {
			cfg.SourceDir = chatSourceDir
		}
		if chatTopK > 0 {
			cfg.TopK = chatTopK
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.ensureIndex(ctx, cfg.SourceDir, chatRebuild); err != nil {
			return err
		}

		fmt.Println(chatHelp)
		return a.chatLoop(ctx, bufio.NewScanner(os.Stdin))
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSourceDir, "source-dir", "", "directory containing documents (default from config)")
	chatCmd.Flags().IntVar(&chatTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
	chatCmd.Flags().BoolVar(&chatRebuild, "rebuild", false, "force rebuild the index before chatting")
}

func (a *app) chatLoop(ctx context.Context, in *bufio.Scanner) error {
	filter := rag.NewSecurityFilter()

	for {
		fmt.Print("you> ")
		if !in.Scan() {
			fmt.Println("\n[askdocs] session ended.")
			return in.Err()
		}
		input := strings.TrimSpace(in.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "/exit", "/quit":
			fmt.Println("[askdocs] goodbye!")
			return nil
		case "/help":
			fmt.Println(chatHelp)
			continue
		case "/memory":
			a.printMemory(ctx)
			continue
		case "/reindex":
			fmt.Println("[askdocs] rebuilding index ...")
			if err := a.pipeline.Rebuild(ctx, a.cfg.SourceDir); err != nil {
				fmt.Printf("[askdocs] reindex failed: %v\n", err)
			} else {
				fmt.Println("[askdocs] reindex complete.")
			}
			continue
		}

		if filter.IsInjection(input) {
			fmt.Println("bot> I cannot assist with that request.")
			continue
		}

		if memory.IsQuestion(input) {
			facts, err := a.facts.List(ctx, memory.TargetUser)
			if err != nil {
				fmt.Printf("[askdocs] error reading memory: %v\n", err)
				continue
			}
			fmt.Printf("\nbot> %s\n\n", memory.AnswerFromFacts(facts))
			continue
		}

		if memory.IsStatement(input) {
			a.recordStatements(ctx, input)
			continue
		}

		a.answerQuery(ctx, input)
	}
}

func (a *app) printMemory(ctx context.Context) {
	for _, target := range []string{memory.TargetUser, memory.TargetCompany} {
		facts, err := a.facts.List(ctx, target)
		if err != nil {
			fmt.Printf("[askdocs] error reading memory: %v\n", err)
			return
		}
		fmt.Printf("-- %s MEMORY --\n", target)
		if len(facts) == 0 {
			fmt.Println("(empty)")
			continue
		}
		for _, f := range facts {
			fmt.Printf("- [%s] %s\n", f.CreatedAt.UTC().Format("2006-01-02"), f.Summary)
		}
	}
}

// recordStatements evaluates each "and"-separated fragment so a compound
// statement can yield several facts.
func (a *app) recordStatements(ctx context.Context, input string) {
	var written, known bool
	for _, fragment := range memory.SplitFragments(input) {
		decision, ok, err := a.recorder.Remember(ctx, fragment, "")
		if err != nil {
			fmt.Printf("[askdocs] memory write failed: %v\n", err)
			return
		}
		if ok {
			fmt.Printf("     memory updated (%s): %s\n", decision.Target, decision.Summary)
			written = true
		} else if decision.ShouldWrite {
			fmt.Printf("     already noted: %s\n", decision.Summary)
			known = true
		}
	}
	if known && !written {
		fmt.Println("bot> I already have that noted in your memory from a previous session.")
	} else {
		fmt.Println("bot> Got it, I'll remember that.")
	}
}

func (a *app) answerQuery(ctx context.Context, input string) {
	chunks, err := a.retriever.Retrieve(ctx, input, a.cfg.TopK)
	if err != nil {
		fmt.Printf("[askdocs] error during query: %v\n", err)
		return
	}
	if len(chunks) == 0 {
		fmt.Println("bot> I couldn't find any relevant content in the documents.")
		return
	}

	result, err := a.engine.Answer(ctx, input, chunks)
	if err != nil {
		fmt.Printf("[askdocs] error during query: %v\n", err)
		return
	}

	fmt.Printf("\nbot> %s\n\n", result.Answer)
	if len(result.Citations) > 0 {
		srcs := make([]string, len(result.Citations))
		for i, c := range result.Citations {
			srcs[i] = fmt.Sprintf("%s p%d", c.Filename, c.Page)
		}
		fmt.Printf("     sources: %s\n", strings.Join(srcs, ", "))
	}

	// Memory extraction runs on the user input only, never the answer
	// (answers contain citation markers the company rules would match).
	if decision, written, err := a.recorder.Remember(ctx, input, ""); err == nil && written {
		fmt.Printf("     memory updated (%s): %s\n", decision.Target, decision.Summary)
	}
}
