package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tickdone/tickdone/internal/domain"
	"github.com/tickdone/tickdone/internal/history"
	"github.com/tickdone/tickdone/internal/logging"
	"github.com/tickdone/tickdone/internal/parser"
	"github.com/tickdone/tickdone/internal/store"
	"github.com/tickdone/tickdone/internal/todostore"
)

func init() {
	addCmd := &cobra.Command{
		Use:   "add TASK...",
		Short: "Add tasks ([#pos] content [@duration])",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAdd,
	}
	rootCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks",
		RunE:    runList,
	}
	rootCmd.AddCommand(listCmd)

	doneCmd := &cobra.Command{
		Use:   "done N...",
		Short: "Mark tasks done",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDone,
	}
	rootCmd.AddCommand(doneCmd)

	undoCmd := &cobra.Command{
		Use:   "undo N...",
		Short: "Restore tasks to pending",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runUndo,
	}
	rootCmd.AddCommand(undoCmd)

	deleteCmd := &cobra.Command{
		Use:     "delete <N|N-M|*>...",
		Aliases: []string{"del"},
		Short:   "Delete tasks (N-M = range, * = all)",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runDelete,
	}
	rootCmd.AddCommand(deleteCmd)

	editCmd := &cobra.Command{
		Use:   "edit N <text|#pos|@min>",
		Short: "Edit content, move (#N), or set duration (@N)",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runEdit,
	}
	rootCmd.AddCommand(editCmd)

	tagCmd := &cobra.Command{
		Use:   "tag <N|*> TAG",
		Short: "Add a tag to tasks",
		Args:  cobra.ExactArgs(2),
		RunE:  runTag,
	}
	rootCmd.AddCommand(tagCmd)

	priorityCmd := &cobra.Command{
		Use:   "priority <N|*> <h|m|l>",
		Short: "Set task priority",
		Args:  cobra.ExactArgs(2),
		RunE:  runPriority,
	}
	rootCmd.AddCommand(priorityCmd)

	sortCmd := &cobra.Command{
		Use:   "sort <p|s|c>",
		Short: "Sort tasks (p=priority s=status c=created)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSort,
	}
	rootCmd.AddCommand(sortCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed tasks",
		RunE:  runClear,
	}
	rootCmd.AddCommand(clearCmd)

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all tasks to pending and clear progress",
		RunE:  runReset,
	}
	rootCmd.AddCommand(resetCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List completed-task history",
		RunE:  runHistory,
	}
	rootCmd.AddCommand(historyCmd)
}

func openFiles() (*store.Files, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.General.DataDir)
	return store.NewFiles(cfg.General.DataDir, logger)
}

type opResult struct {
	ok  bool
	msg string
}

// report prints one line per operation; a non-nil error (and so a
// non-zero exit) results when any operation failed
func report(results []opResult) error {
	failed := 0
	for _, r := range results {
		fmt.Println(r.msg)
		if !r.ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(results))
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	gen := todostore.NewIDGenerator()

	var results []opResult
	for _, raw := range args {
		in, parsed := parser.Parse(raw)
		if !parsed {
			results = append(results, opResult{false, fmt.Sprintf("Failed to parse: %q", raw)})
			continue
		}
		if in.Kind != parser.KindTodo {
			results = append(results, opResult{false,
				fmt.Sprintf("Not a valid task format: %q. Don't include the / prefix.", raw)})
			continue
		}
		item := todostore.New(in.Content, in.Duration, time.Now(), gen)
		todos = todostore.Insert(todos, item, in.Position)
		posStr := ""
		if in.Position > 0 {
			posStr = fmt.Sprintf(" at #%d", in.Position)
		}
		msg := fmt.Sprintf("Added%s: %q (@%dm)", posStr, in.Content, in.Duration)
		if in.Warning != "" {
			msg = in.Warning + " — " + msg
		}
		results = append(results, opResult{true, msg})
	}

	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	return report(results)
}

func runList(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	if len(todos) == 0 {
		fmt.Println("TODO list is empty.")
		return nil
	}

	fmt.Printf("TODO List (%d items):\n", len(todos))
	for i, t := range todos {
		icon := "[ ]"
		switch t.Status {
		case domain.StatusDone:
			icon = "[x]"
		case domain.StatusInProgress:
			icon = "[>]"
		}
		extra := ""
		if t.Priority != domain.PriorityNone && t.Priority != "" {
			extra += " !" + string(t.Priority[0])
		}
		for _, tag := range t.Tags {
			extra += " #" + tag
		}
		fmt.Printf("%2d. %s %s @%dm%s\n", i+1, icon, t.Content, t.Duration, extra)
	}
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	records := files.LoadHistory()
	now := time.Now()

	var results []opResult
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 1 {
			results = append(results, opResult{false, fmt.Sprintf("Invalid index: %s", arg)})
			continue
		}
		if idx > len(todos) {
			results = append(results, opResult{false,
				fmt.Sprintf("Index %d out of range (%d items)", idx, len(todos))})
			continue
		}
		if todos[idx-1].Status != domain.StatusDone {
			records = history.Append(records, todos[idx-1], now)
		}
		todos = todostore.MarkDone(todos, idx, now)
		results = append(results, opResult{true,
			fmt.Sprintf("Completed item %d: %q", idx, todos[idx-1].Content)})
	}

	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	if err := files.SaveHistory(records); err != nil {
		return err
	}
	return report(results)
}

func runUndo(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()

	var results []opResult
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 1 {
			results = append(results, opResult{false, fmt.Sprintf("Invalid index: %s", arg)})
			continue
		}
		if idx > len(todos) {
			results = append(results, opResult{false,
				fmt.Sprintf("Index %d out of range (%d items)", idx, len(todos))})
			continue
		}
		todos = todostore.MarkUndone(todos, idx)
		results = append(results, opResult{true, fmt.Sprintf("Restored item %d to pending", idx)})
	}

	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	return report(results)
}

func runDelete(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	records := files.LoadHistory()
	now := time.Now()

	recordDone := func(t domain.TodoItem) {
		if t.Status == domain.StatusDone {
			records = history.Append(records, t, now)
		}
	}

	var results []opResult
	for _, arg := range args {
		if arg == "*" {
			for _, t := range todos {
				recordDone(t)
			}
			n := len(todos)
			todos = nil
			results = append(results, opResult{true, fmt.Sprintf("Deleted all %d items", n)})
			continue
		}

		if from, to, isRange := parseRange(arg); isRange {
			if from > len(todos) {
				results = append(results, opResult{false,
					fmt.Sprintf("Range %s out of range (%d items)", arg, len(todos))})
				continue
			}
			if to > len(todos) {
				to = len(todos)
			}
			for i := from - 1; i < to; i++ {
				recordDone(todos[i])
			}
			todos = todostore.DeleteRange(todos, from, to)
			results = append(results, opResult{true,
				fmt.Sprintf("Deleted items %d-%d (%d items)", from, to, to-from+1)})
			continue
		}

		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 1 || idx > len(todos) {
			results = append(results, opResult{false, fmt.Sprintf("Invalid index: %s", arg)})
			continue
		}
		name := todos[idx-1].Content
		recordDone(todos[idx-1])
		todos = todostore.Delete(todos, idx)
		results = append(results, opResult{true, fmt.Sprintf("Deleted item %d: %q", idx, name)})
	}

	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	if err := files.SaveHistory(records); err != nil {
		return err
	}
	return report(results)
}

func parseRange(arg string) (from, to int, ok bool) {
	parts := strings.SplitN(arg, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	from, err1 := strconv.Atoi(parts[0])
	to, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if from > to {
		from, to = to, from
	}
	if from < 1 {
		from = 1
	}
	return from, to, true
}

func runEdit(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 {
		return fmt.Errorf("invalid index: %s", args[0])
	}
	if idx > len(todos) {
		return fmt.Errorf("index %d out of range (%d items)", idx, len(todos))
	}

	arg := args[1]
	switch {
	case strings.HasPrefix(arg, "#") && len(args) == 2:
		to, err := strconv.Atoi(arg[1:])
		if err != nil || to < 1 {
			return fmt.Errorf("invalid position: %s", arg)
		}
		todos = todostore.Move(todos, idx, to)
		if err := files.SaveTodos(todos); err != nil {
			return err
		}
		fmt.Printf("Moved item %d to position %d\n", idx, to)

	case strings.HasPrefix(arg, "@") && len(args) == 2:
		minutes, warning := parser.ParseDuration(arg[1:])
		if warning != "" {
			return fmt.Errorf("%s", warning)
		}
		todos = todostore.SetDuration(todos, idx, minutes)
		if err := files.SaveTodos(todos); err != nil {
			return err
		}
		fmt.Printf("Set item %d duration to %dm\n", idx, minutes)

	default:
		text := strings.Join(args[1:], " ")
		todos = todostore.Edit(todos, idx, text)
		if err := files.SaveTodos(todos); err != nil {
			return err
		}
		fmt.Printf("Edited item %d: %q\n", idx, text)
	}
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	tag := args[1]

	if args[0] == "*" {
		for i := range todos {
			todos = todostore.SetTag(todos, i+1, tag)
		}
		if err := files.SaveTodos(todos); err != nil {
			return err
		}
		fmt.Printf("Tagged all %d items with #%s\n", len(todos), tag)
		return nil
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(todos) {
		return fmt.Errorf("invalid index: %s", args[0])
	}
	todos = todostore.SetTag(todos, idx, tag)
	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	fmt.Printf("Tagged item %d with #%s\n", idx, tag)
	return nil
}

var batchPriorities = map[string]domain.Priority{
	"h": domain.PriorityHigh, "high": domain.PriorityHigh,
	"m": domain.PriorityMid, "mid": domain.PriorityMid,
	"l": domain.PriorityLow, "low": domain.PriorityLow,
}

func runPriority(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()

	p, found := batchPriorities[strings.ToLower(args[1])]
	if !found {
		return fmt.Errorf("invalid priority: %s (use h, m or l)", args[1])
	}

	if args[0] == "*" {
		for i := range todos {
			todos = todostore.SetPriority(todos, i+1, p)
		}
		if err := files.SaveTodos(todos); err != nil {
			return err
		}
		fmt.Printf("Set all %d items priority to %s\n", len(todos), p)
		return nil
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 || idx > len(todos) {
		return fmt.Errorf("invalid index: %s", args[0])
	}
	todos = todostore.SetPriority(todos, idx, p)
	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	fmt.Printf("Set item %d priority to %s\n", idx, p)
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()

	by := "priority"
	if len(args) > 0 {
		by = args[0]
	}
	todos = todostore.Sort(todos, by)
	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	fmt.Printf("Sorted by %s\n", by)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := files.LoadTodos()
	records := files.LoadHistory()
	now := time.Now()

	for _, t := range todos {
		if t.Status == domain.StatusDone {
			records = history.Append(records, t, now)
		}
	}
	removed := len(todos)
	todos = todostore.ClearDone(todos)
	removed -= len(todos)

	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	if err := files.SaveHistory(records); err != nil {
		return err
	}
	fmt.Printf("Cleared %d completed items.\n", removed)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	todos := todostore.ResetAll(files.LoadTodos())
	if err := files.SaveTodos(todos); err != nil {
		return err
	}
	fmt.Printf("Reset %d tasks to pending\n", len(todos))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	files, err := openFiles()
	if err != nil {
		return err
	}
	records := files.LoadHistory()
	if len(records) == 0 {
		fmt.Println("No completed tasks yet.")
		return nil
	}

	fmt.Printf("Done history (%d records):\n", len(records))
	for i, r := range records {
		when := ""
		if !r.CompletedAt.IsZero() {
			when = "  " + humanize.Time(r.CompletedAt)
		}
		fmt.Printf("%2d. %s  %s/%dm%s\n",
			i+1, r.Content, domain.FormatSeconds(r.ActualTime), r.Duration, when)
	}
	return nil
}
