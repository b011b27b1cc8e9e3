package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/jskopek/shellviz"
	"github.com/jskopek/shellviz/modules/platform/config"
)

const (
	historyFile     = ".shellviz_history"
	maxHistoryLines = 1000
)

// runRepl is an interactive shell for sending data by hand: each line
// becomes an entry, with the first word optionally naming the view.
func runRepl(cfg *config.Config) error {
	client, err := shellviz.New(cfg)
	if err != nil {
		return err
	}
	defer client.Stop()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("repl requires an interactive terminal (use 'pipe' for piped input)")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "shellviz> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    maxHistoryLines,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Connected to %s (%s)\n", client.URL(), client.Mode())
	fmt.Println("Type a line to log it, '<view> <data>' to pick a view, 'help' for details.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit", "q":
			return nil
		case "help":
			printReplHelp()
			continue
		case "clear":
			if err := client.Clear(); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			continue
		case "entries":
			printEntries(client)
			continue
		}

		if err := sendReplLine(client, line); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// sendReplLine routes '<view> <rest>' to the matching helper, and
// anything else to the log.
func sendReplLine(client *shellviz.Client, line string) error {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch word {
	case "log":
		return client.Log(rest)
	case "markdown":
		return client.Markdown(rest)
	case "json":
		return client.JSON(rest)
	case "raw":
		return client.Raw(rest)
	case "number":
		if n, err := strconv.ParseFloat(rest, 64); err == nil {
			return client.Number(n)
		}
		return client.Number(rest)
	case "progress":
		n, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return fmt.Errorf("progress needs a number between 0 and 1")
		}
		return client.Progress(n)
	case "table", "bar", "area", "pie", "card", "location":
		return client.Send(rest, shellviz.WithView(word))
	}

	return client.Log(line)
}

func printEntries(client *shellviz.Client) {
	list, err := client.Entries()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No entries.")
		return
	}
	for _, e := range list {
		fmt.Printf("%-16s %-10s %v\n", e.ID, e.View, e.Data)
	}
}

func printReplHelp() {
	fmt.Println("Commands:")
	fmt.Println("  <text>               Log the line")
	fmt.Println("  <view> <data>        Send data with a view:")
	fmt.Println("                       log, markdown, json, raw, number,")
	fmt.Println("                       progress, table, bar, area, pie,")
	fmt.Println("                       card, location")
	fmt.Println("  entries              List current entries")
	fmt.Println("  clear                Wipe all entries")
	fmt.Println("  exit                 Leave the repl")
}

func replCompleter() *readline.PrefixCompleter {
	views := []string{
		"log", "markdown", "json", "raw", "number", "progress",
		"table", "bar", "area", "pie", "card", "location",
	}
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("entries"),
		readline.PcItem("clear"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	}
	for _, v := range views {
		items = append(items, readline.PcItem(v))
	}
	return readline.NewPrefixCompleter(items...)
}

func historyPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return homeDir + "/" + historyFile
}
