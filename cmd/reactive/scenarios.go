package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AnatoleLucet/reactive"
	"github.com/spf13/cobra"
)

func counterCmd(opts *options) *cobra.Command {
	var times int

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "A count signal, its doubled value, a watcher and a render unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}

			runCounter(s, times)

			return s.close(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&times, "times", "n", 3, "Number of increments")

	return cmd
}

func runCounter(s *session, times int) {
	var count *reactive.Signal[int]
	var unmount func()

	s.Run(func() {
		count = reactive.NewSignal(0).Named("count")
		doubled := reactive.NewComputed(func() int { return count.Read() * 2 }).Named("doubled")

		reactive.Watch(count.Read, func(newValue, oldValue int) {
			s.printf("watch: count %d -> %d\n", oldValue, newValue)
		}).Named("watch")

		unmount = reactive.Mount(func() {
			s.printf("render: count=%d doubled=%d\n", count.Read(), doubled.Read())
		})
	})

	for range times {
		s.printf("> increment\n")
		s.step(func() { count.Update(func(n int) int { return n + 1 }) })
	}

	s.printf("> batch: write 10 then 20\n")
	s.step(func() {
		reactive.Batch(func() {
			count.Write(10)
			count.Write(20)
		})
	})

	s.printf("> unmount, write 0\n")
	unmount()
	s.step(func() { count.Write(0) })
}

type todo struct {
	Title string
	Done  bool
}

func todoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "todo",
		Short: "A todo list with a filter, derived views and a render unit",
		Long: `A todo list with a filter, derived views and a render unit.

The last step writes a copy of the list: with --equality identity the
copy is a new value and the list renders again, with --equality
structural the write is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}

			runTodo(s)

			return s.close(cmd.Context())
		},
	}
}

func runTodo(s *session) {
	var todos *reactive.Signal[[]todo]
	var filter *reactive.Signal[string]

	s.Run(func() {
		todos = reactive.NewSignal([]todo{{Title: "learn signals"}}).Named("todos")
		filter = reactive.NewSignal("all").Named("filter")

		visible := reactive.NewComputed(func() []todo {
			list := []todo{}
			for _, t := range todos.Read() {
				switch filter.Read() {
				case "active":
					if t.Done {
						continue
					}
				case "done":
					if !t.Done {
						continue
					}
				}
				list = append(list, t)
			}
			return list
		}).Named("visible")

		remaining := reactive.NewComputed(func() int {
			n := 0
			for _, t := range todos.Read() {
				if !t.Done {
					n++
				}
			}
			return n
		}).Named("remaining")

		reactive.Mount(func() {
			titles := []string{}
			for _, t := range visible.Read() {
				mark := " "
				if t.Done {
					mark = "x"
				}
				titles = append(titles, fmt.Sprintf("[%s] %s", mark, t.Title))
			}

			s.printf("render (%s, %d left): %s\n", filter.Peek(), remaining.Read(), strings.Join(titles, ", "))
		})
	})

	s.printf("> add a todo\n")
	s.step(func() {
		todos.Update(func(list []todo) []todo {
			return append(slices.Clone(list), todo{Title: "learn watchers"})
		})
	})

	s.printf("> complete the first todo\n")
	s.step(func() {
		todos.Update(func(list []todo) []todo {
			list = slices.Clone(list)
			list[0].Done = true
			return list
		})
	})

	s.printf("> show active todos\n")
	s.step(func() { filter.Write("active") })

	s.printf("> write an equal copy of the list\n")
	s.step(func() { todos.Write(slices.Clone(todos.Peek())) })
}

func cycleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Two computed values reading each other",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}

			runCycle(s)

			return s.close(cmd.Context())
		},
	}
}

func runCycle(s *session) {
	s.Run(func() {
		var a, b *reactive.Computed[int]
		a = reactive.NewComputed(func() int { return b.Read() + 1 }).Named("a")
		b = reactive.NewComputed(func() int { return a.Read() + 1 }).Named("b")

		if _, err := a.Get(); err != nil {
			s.printf("get: %s\n", err)
		}

		owner := reactive.NewOwner()
		owner.OnError(func(r any) {
			s.printf("caught: %v\n", r)
		})

		owner.Run(func() error {
			reactive.NewEffect(func() {
				s.printf("effect: b=%d\n", b.Read())
			}).Named("effect")

			return nil
		})

		if err := owner.Dispose(); err != nil {
			s.printf("dispose: %s\n", err)
		}
	})
}
