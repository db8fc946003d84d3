package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/focusplanner/backend/client"
)

// defaultURL 未设置 PLANNER_URL 时使用
const defaultURL = "http://localhost:3000"

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baseURL := os.Getenv("PLANNER_URL")
	if baseURL == "" {
		baseURL = defaultURL
	}

	if err := run(ctx, client.New(baseURL), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "用法:")
	fmt.Fprintln(w, "  plannerctl lists                                        - 列出全部清单及任务")
	fmt.Fprintln(w, "  plannerctl add-list <名称>                              - 创建清单")
	fmt.Fprintln(w, "  plannerctl rm-list <清单ID>                             - 删除清单及其任务")
	fmt.Fprintln(w, "  plannerctl add-task [-due YYYY-MM-DD] [-at HH:MM] <清单ID> <内容>")
	fmt.Fprintln(w, "  plannerctl toggle <清单ID> <任务ID>                     - 切换完成状态")
	fmt.Fprintln(w, "  plannerctl rm-task <清单ID> <任务ID>                    - 删除任务")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "环境变量: PLANNER_URL（默认 "+defaultURL+"）")
}

func run(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "lists":
		lists, err := c.GetData(ctx)
		if err != nil {
			return err
		}
		printLists(out, lists)
		return nil

	case "add-list":
		if len(rest) == 0 {
			return errUsage
		}
		list, err := c.AddList(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		if list == nil {
			fmt.Fprintln(out, "名称为空，未创建")
			return nil
		}
		fmt.Fprintf(out, "%s\t%s\n", list.ID, list.Name)
		return nil

	case "rm-list":
		if len(rest) != 1 {
			return errUsage
		}
		return c.RemoveList(ctx, rest[0])

	case "add-task":
		fs := flag.NewFlagSet("add-task", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		due := fs.String("due", "", "截止日期 YYYY-MM-DD")
		at := fs.String("at", "", "截止时间 HH:MM")
		if err := fs.Parse(rest); err != nil || fs.NArg() < 2 {
			return errUsage
		}
		task, err := c.AddTask(ctx, fs.Arg(0), strings.Join(fs.Args()[1:], " "), *due, *at)
		if err != nil {
			return err
		}
		if task == nil {
			fmt.Fprintln(out, "内容为空，未创建")
			return nil
		}
		fmt.Fprintf(out, "%s\t%s\n", task.ID, task.Text)
		return nil

	case "toggle":
		if len(rest) != 2 {
			return errUsage
		}
		task, err := c.ToggleTask(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", checkbox(task.Done), task.Text)
		return nil

	case "rm-task":
		if len(rest) != 2 {
			return errUsage
		}
		return c.RemoveTask(ctx, rest[0], rest[1])
	}

	return errUsage
}

func printLists(out io.Writer, lists []*client.List) {
	if len(lists) == 0 {
		fmt.Fprintln(out, "（暂无清单）")
		return
	}
	for _, list := range lists {
		fmt.Fprintf(out, "%s  %s\n", list.ID, list.Name)
		for _, task := range list.Tasks {
			fmt.Fprintf(out, "    %s %s  %s%s\n", checkbox(task.Done), task.ID, task.Text, dueSuffix(task))
		}
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dueSuffix(task *client.Task) string {
	if task.DueDate == nil {
		return ""
	}
	if task.DueTime == nil {
		return "  (due " + *task.DueDate + ")"
	}
	return "  (due " + *task.DueDate + " " + *task.DueTime + ")"
}
