package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	todosdk "github.com/abdullah3034/Todo/sdk/todo"
)

// Run drives the form/list views: it renders the visible list, reads one
// user intent per line and forwards it to the state container, until EOF or
// the quit command.
func Run(ctx context.Context, s *State, in io.Reader, out io.Writer) error {
	s.Load(ctx)
	render(s, out)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg := splitCommand(line)

		switch cmd {
		case "", "list":
			// fall through to render
		case "quit", "exit", "q":
			return nil
		case "help":
			printHelp(out)
			fmt.Fprint(out, "> ")
			continue
		case "reload":
			s.Load(ctx)
		case "add":
			addForm(ctx, s, scanner, out, arg)
		case "done":
			if id, ok := parseIDArg(out, arg); ok {
				s.MarkDone(ctx, id)
			}
		case "toggle":
			if id, ok := parseIDArg(out, arg); ok {
				s.Toggle(ctx, id)
			}
		case "search":
			s.SetSearch(arg)
		case "priority":
			s.SetPriority(arg)
		case "category":
			s.SetCategory(arg)
		case "clear":
			s.ClearFilters()
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
			fmt.Fprint(out, "> ")
			continue
		}

		render(s, out)
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

// addForm collects the create fields. The title may come inline ("add Buy
// milk"); the rest is prompted. Empty priority/category are left to the
// server defaults.
func addForm(ctx context.Context, s *State, scanner *bufio.Scanner, out io.Writer, inlineTitle string) {
	title := strings.TrimSpace(inlineTitle)
	if title == "" {
		title = prompt(scanner, out, "title: ")
	}
	desc := prompt(scanner, out, "description: ")
	priority := prompt(scanner, out, "priority (low/medium/high, empty for default): ")
	category := prompt(scanner, out, "category (empty for default): ")

	in := todoCreateInput(title, desc, priority, category)
	s.Create(ctx, in)
}

func render(s *State, out io.Writer) {
	if s.Err() != "" {
		fmt.Fprintf(out, "! %s\n", s.Err())
	}
	visible := s.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(out, "no todos")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tCATEGORY\tTITLE\tDESCRIPTION")
	for _, t := range visible {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\t%s\t%s\n",
			t.ID, done, orDefault(t.Priority, defaultPriority), orDefault(t.Category, defaultCategory),
			t.Title, t.Description)
	}
	w.Flush()
	fmt.Fprintf(out, "%d of %d shown\n", len(visible), s.Len())
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  list                 show the (filtered) list
  add [title]          create a todo (prompts for the rest)
  done <id>            mark a todo done (removes it)
  toggle <id>          flip the completed flag
  search <text>        filter by title/description substring
  priority <p>         filter by priority, empty clears
  category <c>         filter by category, empty clears
  clear                clear all filters
  reload               re-fetch from the server
  quit                 exit
`)
}

func prompt(scanner *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func splitCommand(line string) (cmd, arg string) {
	parts := strings.SplitN(line, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func todoCreateInput(title, desc, priority, category string) todosdk.CreateInput {
	in := todosdk.CreateInput{Title: &title, Description: &desc}
	if priority != "" {
		in.Priority = &priority
	}
	if category != "" {
		in.Category = &category
	}
	return in
}

func parseIDArg(out io.Writer, arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(out, "expected a numeric id")
		return 0, false
	}
	return id, true
}
