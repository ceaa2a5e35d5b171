// Command wislex is a small interactive demonstration of the query
// engine in internal/rule: it loads a word-sequence vocabulary from a
// TOML profile and answers lines typed at a line-editing prompt
// (github.com/chzyer/readline),
// offering tab completion driven by partial/predictive query.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/wislex/internal/kb"
	"github.com/dekarrin/wislex/internal/profile"
	"github.com/dekarrin/wislex/internal/uierr"
	"github.com/dekarrin/wislex/internal/util"
)

const outputWidth = 80

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Print version info and exit.")
	flagProfilePath = pflag.StringP("profile", "p", "", "Load a TOML grammar profile instead of the built-in demo vocabulary.")
	flagTrace       = pflag.BoolP("trace", "t", false, "Print rule-evaluation trace events to stderr.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("wislex demo REPL")
		return
	}

	prof := profile.Default()
	if *flagProfilePath != "" {
		loaded, err := profile.Load(*flagProfilePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, uierr.Operator(uierr.WrapQueryf(err, "could not load profile %q", *flagProfilePath)))
			os.Exit(1)
		}
		prof = loaded
	}

	engine := kb.Build(prof.Rules)
	if *flagTrace {
		engine.Trace = func(event string) { fmt.Fprintf(os.Stderr, "[%s] %s\n", engine.SessionID.String()[:8], event) }
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       fmt.Sprintf("wislex[%s]> ", engine.SessionID.String()[:8]),
		AutoComplete: completer{engine},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, uierr.Operator(uierr.WrapQueryf(err, "could not start interactive prompt")))
		os.Exit(1)
	}
	defer rl.Close()

	runREPL(rl, engine)
}

func runREPL(rl *readline.Instance, engine kb.Engine) {
	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}

		reply, ok := engine.Answer(line)
		if !ok {
			suggestions := engine.Complete(line)
			if len(suggestions) == 0 {
				fmt.Println(rosed.Edit("I don't know how to respond to that.").Wrap(outputWidth).String())
				continue
			}
			msg := fmt.Sprintf("I don't know that one. Did you mean to continue with: %s?", util.MakeTextList(suggestions))
			fmt.Println(rosed.Edit(msg).Wrap(outputWidth).String())
			continue
		}

		fmt.Println(rosed.Edit(reply).Wrap(outputWidth).String())
	}
}

// completer adapts kb.Engine.Complete to readline's AutoCompleter
// interface, offering whole remaining words as completions of the
// partially-typed last word on the line.
type completer struct {
	engine kb.Engine
}

func (c completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	typed := string(line[:pos])

	// the last word is the one being typed (empty right after a space);
	// the words before it decide which words can come next
	start := strings.LastIndexAny(typed, " \t") + 1
	prefix, partial := typed[:start], typed[start:]

	for _, word := range c.engine.Complete(prefix) {
		if strings.HasPrefix(word, partial) {
			newLine = append(newLine, []rune(word[len(partial):]+" "))
		}
	}
	return newLine, len([]rune(partial))
}
