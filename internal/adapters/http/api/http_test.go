package api_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/passnet/internal/adapters/http/api"
	"github.com/okian/passnet/internal/adapters/repository"
	"github.com/okian/passnet/internal/adapters/ufa"
	service "github.com/okian/passnet/internal/app"
	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/internal/domain/selection"
	"github.com/okian/passnet/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func ts(v int64) *int64 { return &v }

// mockDependencies keeps one controller per session over a fixed graph.
type mockDependencies struct {
	mu        sync.Mutex
	teams     []model.Team
	teamsErr  error
	events    map[string][]model.RawEvent
	selectErr error
	sessions  map[string]*selection.Controller
	next      int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		teams: []model.Team{
			{ID: "flyers", City: "Carolina", FullName: "Carolina Flyers"},
			{ID: "empire", City: "New York", FullName: "New York Empire"},
		},
		events: map[string][]model.RawEvent{
			"flyers": {
				{Type: 18, Timestamp: ts(10), Thrower: "a", Receiver: "b"},
				{Type: 18, Timestamp: ts(20), Thrower: "b", Receiver: "a"},
				{Type: 22, Timestamp: ts(30)},
			},
		},
		sessions: make(map[string]*selection.Controller),
	}
}

func (m *mockDependencies) graph() passing.Graph {
	return passing.Graph{
		Nodes: []passing.Node{{ID: "a", Label: "a", Weight: 1}, {ID: "b", Label: "b", Weight: 1}},
		Edges: []passing.Edge{
			{ID: "a-b", Source: "a", Target: "b", Weight: 1},
			{ID: "b-a", Source: "b", Target: "a", Weight: 1},
		},
		Passes: 2,
	}
}

func (m *mockDependencies) Teams(ctx context.Context) ([]model.Team, error) {
	return m.teams, m.teamsErr
}

func (m *mockDependencies) TeamEvents(ctx context.Context, teamID string) ([]model.RawEvent, error) {
	ev, ok := m.events[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ufa.ErrTeamNotFound, teamID)
	}
	return ev, nil
}

func (m *mockDependencies) CreateSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("s%d", m.next)
	m.sessions[id] = selection.NewController(passing.Graph{})
	return id, nil
}

func (m *mockDependencies) controller(id string) (*selection.Controller, error) {
	c, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockDependencies) SelectTeam(ctx context.Context, sessionID, teamID string) (api.GraphView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.controller(sessionID)
	if err != nil {
		return api.GraphView{}, err
	}
	if m.selectErr != nil {
		return api.GraphView{}, m.selectErr
	}
	if _, ok := m.events[teamID]; !ok {
		return api.GraphView{}, ufa.ErrTeamNotFound
	}
	g := m.graph()
	c.Load(g)
	return api.GraphView{
		SessionID: sessionID,
		Team:      &m.teams[0],
		Nodes:     g.Nodes,
		Edges:     g.Edges,
		Highlight: c.Highlight(),
	}, nil
}

func (m *mockDependencies) Graph(ctx context.Context, sessionID string) (api.GraphView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.controller(sessionID)
	if err != nil {
		return api.GraphView{}, err
	}
	return api.GraphView{SessionID: sessionID, Nodes: []passing.Node{}, Edges: []passing.Edge{}, Empty: true, Highlight: c.Highlight()}, nil
}

func (m *mockDependencies) Interact(ctx context.Context, sessionID string, in selection.Interaction) (selection.Highlight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.controller(sessionID)
	if err != nil {
		return selection.Highlight{}, err
	}
	hl, err := c.Apply(in)
	if errors.Is(err, selection.ErrInteractionOutOfRange) {
		return hl, nil
	}
	return hl, err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true, "sessions": 1}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When requesting the health endpoint", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then it should expose the metrics registry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "passnet_network")
			})
		})

		Convey("When requesting the stats endpoint", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then it should return the provider's stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When requesting the dashboard", func() {
			w := do(mux, http.MethodGet, "/dashboard", "")

			Convey("Then it should serve the embedded page", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "passnet")
			})
		})

		Convey("When using the wrong method", func() {
			w := do(mux, http.MethodDelete, "/api/teams", "")

			Convey("Then the mux should reject it", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestTeamsHandler(t *testing.T) {
	Convey("Given the team endpoints", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When listing teams", func() {
			w := do(mux, http.MethodGet, "/api/teams", "")

			Convey("Then every team should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var teams []model.Team
				So(json.Unmarshal(w.Body.Bytes(), &teams), ShouldBeNil)
				So(len(teams), ShouldEqual, 2)
				So(teams[0].ID, ShouldEqual, "flyers")
			})
		})

		Convey("When the team list is nil", func() {
			deps.teams = nil
			w := do(mux, http.MethodGet, "/api/teams", "")

			Convey("Then an empty array should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the stats API is down", func() {
			deps.teamsErr = fmt.Errorf("%w: status 503", ufa.ErrUpstream)
			w := do(mux, http.MethodGet, "/api/teams", "")

			Convey("Then it should answer bad gateway", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(decodeError(w)["code"], ShouldEqual, "upstream_error")
			})
		})

		Convey("When listing a team's events", func() {
			w := do(mux, http.MethodGet, "/api/teams/flyers/events", "")

			Convey("Then every raw event should be a row in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0]["type_name"], ShouldEqual, "throw")
				So(rows[0]["thrower"], ShouldEqual, "a")
				So(rows[2]["type_name"], ShouldEqual, "turnover")
				So(rows[2]["index"], ShouldEqual, float64(2))
			})
		})

		Convey("When listing events for an unknown team", func() {
			w := do(mux, http.MethodGet, "/api/teams/nobody/events", "")

			Convey("Then it should answer not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})
	})
}

func TestSessionsHandler(t *testing.T) {
	Convey("Given the session endpoints", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		w := do(mux, http.MethodPost, "/api/sessions", "")
		So(w.Code, ShouldEqual, http.StatusCreated)
		var created map[string]string
		So(json.Unmarshal(w.Body.Bytes(), &created), ShouldBeNil)
		id := created["id"]
		So(id, ShouldNotBeEmpty)

		Convey("When reading the graph before a team is chosen", func() {
			w := do(mux, http.MethodGet, "/api/sessions/"+id+"/graph", "")

			Convey("Then the graph should be empty", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view api.GraphView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Empty, ShouldBeTrue)
				So(view.Highlight.Mode, ShouldEqual, selection.ModeIdle)
			})
		})

		Convey("When selecting a team", func() {
			w := do(mux, http.MethodPut, "/api/sessions/"+id+"/team", `{"team_id":"flyers"}`)

			Convey("Then the graph should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view api.GraphView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.SessionID, ShouldEqual, id)
				So(len(view.Nodes), ShouldEqual, 2)
				So(len(view.Edges), ShouldEqual, 2)
			})

			Convey("And clicking a node should select it", func() {
				w := do(mux, http.MethodPost, "/api/sessions/"+id+"/interactions", `{"kind":"click","node":"a"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				var hl selection.Highlight
				So(json.Unmarshal(w.Body.Bytes(), &hl), ShouldBeNil)
				So(hl.Mode, ShouldEqual, selection.ModeSelected)
				So(hl.Selected, ShouldEqual, "a")
				So(hl.Nodes, ShouldResemble, []string{"a", "b"})
			})

			Convey("And a stale node id should leave the highlight untouched", func() {
				w := do(mux, http.MethodPost, "/api/sessions/"+id+"/interactions", `{"kind":"pointer_enter","node":"zz"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				var hl selection.Highlight
				So(json.Unmarshal(w.Body.Bytes(), &hl), ShouldBeNil)
				So(hl.Mode, ShouldEqual, selection.ModeIdle)
			})
		})

		Convey("When the team id is missing", func() {
			w := do(mux, http.MethodPut, "/api/sessions/"+id+"/team", `{"team_id":"  "}`)

			Convey("Then it should answer bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPut, "/api/sessions/"+id+"/team", `team=flyers`)

			Convey("Then it should answer bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the team does not exist", func() {
			w := do(mux, http.MethodPut, "/api/sessions/"+id+"/team", `{"team_id":"nobody"}`)

			Convey("Then it should answer not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a newer selection superseded this one", func() {
			deps.selectErr = service.ErrSuperseded
			w := do(mux, http.MethodPut, "/api/sessions/"+id+"/team", `{"team_id":"flyers"}`)

			Convey("Then it should answer conflict", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w)["code"], ShouldEqual, "superseded")
			})
		})

		Convey("When the interaction kind is unknown", func() {
			w := do(mux, http.MethodPost, "/api/sessions/"+id+"/interactions", `{"kind":"double_click","node":"a"}`)

			Convey("Then it should answer bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the interaction body is malformed", func() {
			w := do(mux, http.MethodPost, "/api/sessions/"+id+"/interactions", `{"kind":`)

			Convey("Then it should answer bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the session does not exist", func() {
			w := do(mux, http.MethodGet, "/api/sessions/missing/graph", "")

			Convey("Then it should answer not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSocketHandler(t *testing.T) {
	Convey("Given a session served over a websocket", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)
		id, _ := deps.CreateSession(context.Background())
		_, err := deps.SelectTeam(context.Background(), id, "flyers")
		So(err, ShouldBeNil)

		srv := httptest.NewServer(mux)
		defer srv.Close()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + id + "/ws"

		Convey("When connecting and sending interactions", func() {
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusSwitchingProtocols)

			var initial selection.Highlight
			_, msg, err := conn.ReadMessage()
			So(err, ShouldBeNil)
			So(json.Unmarshal(msg, &initial), ShouldBeNil)
			So(initial.Mode, ShouldEqual, selection.ModeIdle)

			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"kind":"pointer_enter","node":"b"}`)), ShouldBeNil)
			var hovered selection.Highlight
			_, msg, err = conn.ReadMessage()
			So(err, ShouldBeNil)
			So(json.Unmarshal(msg, &hovered), ShouldBeNil)
			So(hovered.Mode, ShouldEqual, selection.ModeHover)
			So(hovered.Hovered, ShouldEqual, "b")

			So(conn.WriteMessage(websocket.TextMessage, []byte(`not json`)), ShouldBeNil)
			var failure map[string]string
			_, msg, err = conn.ReadMessage()
			So(err, ShouldBeNil)
			So(json.Unmarshal(msg, &failure), ShouldBeNil)
			So(failure["code"], ShouldEqual, "bad_request")

			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"kind":"double_click"}`)), ShouldBeNil)
			_, msg, err = conn.ReadMessage()
			So(err, ShouldBeNil)
			So(json.Unmarshal(msg, &failure), ShouldBeNil)
			So(failure["code"], ShouldEqual, "bad_request")

			Convey("Then the connection should stay usable after errors", func() {
				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"kind":"click_canvas"}`)), ShouldBeNil)
				var still selection.Highlight
				_, msg, err := conn.ReadMessage()
				So(err, ShouldBeNil)
				So(json.Unmarshal(msg, &still), ShouldBeNil)
				So(still.Mode, ShouldEqual, selection.ModeHover)
				So(still.Hovered, ShouldEqual, "b")

				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"kind":"pointer_leave","node":"b"}`)), ShouldBeNil)
				var idle selection.Highlight
				_, msg, err = conn.ReadMessage()
				So(err, ShouldBeNil)
				So(json.Unmarshal(msg, &idle), ShouldBeNil)
				So(idle.Mode, ShouldEqual, selection.ModeIdle)
			})
		})

		Convey("When a client sends an oversized message", func() {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()
			_, _, err = conn.ReadMessage()
			So(err, ShouldBeNil)

			huge := `{"kind":"click","node":"` + strings.Repeat("x", 1<<17) + `"}`
			So(conn.WriteMessage(websocket.TextMessage, []byte(huge)), ShouldBeNil)

			Convey("Then the server should close the connection", func() {
				_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, _, err := conn.ReadMessage()
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When connecting to an unknown session", func() {
			bad := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/missing/ws"
			_, resp, err := websocket.DefaultDialer.Dial(bad, nil)

			Convey("Then the upgrade should be refused with not found", func() {
				So(err, ShouldNotBeNil)
				So(resp, ShouldNotBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("boom")

		Convey("When wrapping a cause", func() {
			err := api.Wrap("api.test", cause)

			Convey("Then the cause should be reachable", func() {
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.test: boom")
			})
		})

		Convey("When wrapping nil", func() {
			So(api.Wrap("api.test", nil), ShouldBeNil)
		})

		Convey("When wrapping with a kind", func() {
			err := api.WrapKind("api.test", api.ErrBadRequest, cause)

			Convey("Then both kind and cause should match", func() {
				So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.test: bad request: boom")
			})
		})

		Convey("When building a bare kind", func() {
			err := api.NewKind("api.test", api.ErrNotFound)

			Convey("Then only the kind should be reported", func() {
				So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.test: not found")

				var opErr *api.OpError
				So(errors.As(err, &opErr), ShouldBeTrue)
				So(opErr.Op, ShouldEqual, "api.test")
			})
		})
	})
}
