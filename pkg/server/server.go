package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/qubemenu/qubemenu/internal/logger"
	"github.com/qubemenu/qubemenu/internal/utils"
	"github.com/qubemenu/qubemenu/pkg/config"
	"github.com/qubemenu/qubemenu/pkg/highlight"
	"github.com/qubemenu/qubemenu/pkg/icons"
	"github.com/qubemenu/qubemenu/pkg/menu"
	"github.com/qubemenu/qubemenu/pkg/search"
)

// request is the decoded union of all client message shapes; routing looks
// at which fields came through.
type request struct {
	ID     string `msgpack:"id"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"l"`
	Action string `msgpack:"action"`
	Page   *int   `msgpack:"page"`
}

// Server handles the IPC for the presentation layer. State access goes
// through the menu loop, one queued action per request, so the server
// goroutine never touches the Manager concurrently with event delivery.
type Server struct {
	mgr    *menu.Manager
	loop   *menu.Loop
	cfg    *config.Config
	markup highlight.Markup
	log    *log.Logger

	in  io.Reader
	out io.Writer
}

// NewServer creates an IPC server over stdin/stdout.
func NewServer(mgr *menu.Manager, loop *menu.Loop, cfg *config.Config) *Server {
	return &Server{
		mgr:    mgr,
		loop:   loop,
		cfg:    cfg,
		markup: highlight.Markup{Open: cfg.Highlight.OpenTag, Close: cfg.Highlight.CloseTag},
		log:    logger.New("ipc"),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// NewServerWithStreams is NewServer with explicit streams, for tests.
func NewServerWithStreams(mgr *menu.Manager, loop *menu.Loop, cfg *config.Config, in io.Reader, out io.Writer) *Server {
	s := NewServer(mgr, loop, cfg)
	s.in = in
	s.out = out
	return s
}

// Start decodes requests until the client disconnects.
func (s *Server) Start() error {
	s.log.Debug("Starting IPC server")

	s.send(map[string]string{"status": "ready"})

	dec := msgpack.NewDecoder(s.in)
	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("IPC client disconnected")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(req)
	}
}

// handleRequest routes one decoded request.
func (s *Server) handleRequest(req request) {
	switch {
	case req.Action != "":
		s.handleMenu(req)
	case req.Query != "":
		s.handleSearch(req)
	default:
		s.sendError(req.ID, "Missing 'q' or 'action' parameter", 400)
	}
}

// handleSearch validates the query, ranks entries on the menu loop and
// replies with highlighted results.
func (s *Server) handleSearch(req request) {
	query := req.Query

	if len(query) < s.cfg.Server.MinQuery {
		s.sendError(req.ID, fmt.Sprintf("Query must be at least %d characters", s.cfg.Server.MinQuery), 400)
		return
	}
	if len(query) > s.cfg.Server.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxQuery), 400)
		return
	}

	if s.cfg.Server.EnableFilter && !utils.IsValidQuery(query) {
		// filtered queries get an empty result set, not an error: the
		// client is mid-keystroke, nothing is wrong
		s.send(SearchResponse{ID: req.ID, Suggestions: []SearchResult{}})
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	var ranked []menu.RankedEntry
	s.loop.Call(func() {
		ranked = s.mgr.Search(query, limit)
	})
	elapsed := time.Since(start)

	words := search.Tokenize(query)
	results := make([]SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, SearchResult{
			EntryID:  r.Entry.ID,
			Name:     highlight.Words(r.Entry.Name, words, s.markup),
			Generic:  highlight.Words(r.Entry.GenericName, words, s.markup),
			QubeName: highlight.Words(r.QubeName, words, s.markup),
			Running:  r.Running,
			Icon:     icons.Resolve(r.Entry.Icon, icons.DefaultSize).Path,
			Exec:     r.Entry.Exec,
			Rank:     r.Rank,
		})
	}

	s.send(SearchResponse{
		ID:          req.ID,
		Suggestions: results,
		Count:       len(results),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleMenu executes a presentation state action on the menu loop.
func (s *Server) handleMenu(req request) {
	resp := MenuResponse{ID: req.ID, Status: "ok"}

	switch req.Action {
	case "health":
		// nothing to gather; an ok status proves the loop is alive
		s.loop.Call(func() {})
	case "get_page":
		s.loop.Call(func() {
			resp.Page = s.mgr.Page()
		})
	case "get_state":
		s.loop.Call(func() {
			resp.Page = s.mgr.Page()
			resp.SortRunning = s.mgr.Settings().SortRunning
			resp.KeepVisible = s.cfg.Menu.KeepVisible
			for _, q := range s.mgr.Qubes() {
				resp.Qubes = append(resp.Qubes, QubeState{
					ID:      q.ID,
					Name:    q.Name,
					Running: q.Running,
					Entries: len(s.mgr.Entries(q.ID)),
				})
			}
		})
	case "set_page":
		if req.Page == nil {
			s.sendError(req.ID, "Missing 'page' parameter", 400)
			return
		}
		s.loop.Call(func() {
			s.mgr.SetPage(*req.Page)
			resp.Page = s.mgr.Page()
		})
	case "reset":
		// the client hid the menu; transient state goes back to the
		// configured initial page
		s.loop.Call(func() {
			s.mgr.SetPage(-1)
			resp.Page = s.mgr.Page()
		})
	case "reload_settings":
		s.loop.Call(func() {
			s.mgr.ReloadSettings()
			resp.Page = s.mgr.Page()
			resp.SortRunning = s.mgr.Settings().SortRunning
		})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
		return
	}

	s.send(resp)
}

// send marshals a response onto stdout.
func (s *Server) send(response interface{}) {
	data, err := msgpack.Marshal(response)
	if err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		return
	}
	if _, err := s.out.Write(data); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(RequestError{ID: id, Error: message, Code: code})
}
