// Package cli handles cmd line input for DBG and testing the search and
// highlighting behavior without a presentation client attached
package cli

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/qubemenu/qubemenu/internal/utils"
	"github.com/qubemenu/qubemenu/pkg/highlight"
	"github.com/qubemenu/qubemenu/pkg/menu"
	"github.com/qubemenu/qubemenu/pkg/search"
)

var (
	qubeStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).Bold(true)
	haltedStyle  = lipgloss.NewStyle().Faint(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

// InputHandler processes user queries from stdin, printing ranked and
// highlighted entries the way a presentation client would render them.
type InputHandler struct {
	mgr          *menu.Manager
	loop         *menu.Loop
	suggestLimit int
	noFilter     bool
	markup       highlight.Markup
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic
// parameters. The highlight delimiters come from the terminal: reverse-video
// ANSI when stdout is a TTY, plain brackets when piped.
func NewInputHandler(mgr *menu.Manager, loop *menu.Loop, limit int, noFilter bool) *InputHandler {
	markup := highlight.Markup{Open: "[", Close: "]"}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		markup = highlight.Markup{Open: "\x1b[7m", Close: "\x1b[27m"}
	}
	return &InputHandler{
		mgr:          mgr,
		loop:         loop,
		suggestLimit: limit,
		noFilter:     noFilter,
		markup:       markup,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("qubemenu CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a query and press Enter to see ranked entries (Ctrl+C to exit):")

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput runs a single query and pretty-prints the results.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++

	// input filtering by default (unless -no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidQuery(query) {
			log.Warnf("No entries found for query: '%s' (filtered out)", query)
			return
		}
	} else {
		log.Debug("Input filtering disabled - allowing all queries")
	}

	start := time.Now()
	var results []menu.RankedEntry
	h.loop.Call(func() {
		results = h.mgr.Search(query, h.suggestLimit)
	})
	elapsed := time.Since(start)

	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No entries found for query: '%s'", query)
		return
	}

	words := search.Tokenize(query)
	log.Printf("Found %d entries for query '%s':", len(results), query)
	for i, r := range results {
		name := highlight.Words(r.Entry.Name, words, h.markup)
		state := haltedStyle.Render("halted")
		if r.Running {
			state = runningStyle.Render("running")
		}
		log.Printf("%2d. %-40s %s (%s, rank %.1f)",
			i+1, name, qubeStyle.Render(r.QubeName), state, r.Rank)
	}
}
