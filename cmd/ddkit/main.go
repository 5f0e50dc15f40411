// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ddkit is a small command-line front end over the ddkit
// library: it reads a family of integer sets from a text file (one
// member per line, keys separated by whitespace) and reports its
// size or dumps it as a Graphviz graph.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kyouko-taiga/ddkit"
)

func readFamily(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var family [][]int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		member := make([]int, 0, len(fields))
		for _, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("parsing %q: %w", tok, err)
			}
			member = append(member, v)
		}
		family = append(family, member)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return family, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ddkit",
		Short: "Inspect set-family decision diagrams built from a text file",
	}

	countCmd := &cobra.Command{
		Use:   "count FILE",
		Short: "Print the number of members and the number of arena nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := readFamily(args[0])
			if err != nil {
				return err
			}
			f := ddkit.NewFactory[int]()
			n := f.Encode(family)
			klog.V(1).Infof("encoded %d raw members into %d arena nodes", len(family), f.CreatedCount())
			fmt.Printf("members: %s\n", f.Count(n).String())
			fmt.Printf("nodes:   %d\n", f.CreatedCount())
			return nil
		},
	}

	dotCmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Write a Graphviz dot description of the family to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := readFamily(args[0])
			if err != nil {
				return err
			}
			f := ddkit.NewFactory[int]()
			n := f.Encode(family)
			return f.WriteDot(os.Stdout, n)
		},
	}

	root.AddCommand(countCmd, dotCmd)
	return root
}

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	root := newRootCmd()
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
