package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"github.com/broady/derivegen"
	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/idx"
	"github.com/broady/derivegen/loader"
	"github.com/broady/derivegen/rust"
)

// maxBodyBytes bounds POST /derive bodies.
const maxBodyBytes = 1 << 20

var (
	validate      = diag.NewValidator("schema")
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

type Cmd struct {
	Addr        string   `help:"Address to listen on." default:"localhost:9000"`
	AllowOrigin []string `help:"Origins allowed to call the API from a browser (\"*\" for any)." name:"allow-origin"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	cfg, err := g.Config(cli.GenFlags{})
	if err != nil {
		return err
	}
	log, err := g.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           NewHandler(cfg, log, c.AllowOrigin...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info("derivegen preview listening", zap.String("url", "http://"+c.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// IndexTypeQuery is the query of GET /index-type.
type IndexTypeQuery struct {
	Name         string `schema:"name" validate:"required"`
	Policy       string `schema:"policy" validate:"omitempty,oneof=abort error"`
	IDVectorPath string `schema:"id_vector_path"`
}

// handler serves the preview endpoints. Generated code is returned as
// text/plain; failures use the JSON error envelope.
type handler struct {
	cfg derivegen.Config
	log *zap.Logger
}

// NewHandler returns the preview API. cfg supplies the defaults for
// overflow policy, id vector path and header. Browsers may call it from
// the given origins.
func NewHandler(cfg derivegen.Config, log *zap.Logger, origins ...string) http.Handler {
	h := &handler{cfg: cfg, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /index-type", h.indexType)
	mux.HandleFunc("POST /derive", h.derive)
	return logRequests(log)(allowOrigins(origins)(mux))
}

func (h *handler) indexType(w http.ResponseWriter, r *http.Request) {
	var q IndexTypeQuery
	if err := schemaDecoder.Decode(&q, r.URL.Query()); err != nil {
		h.writeError(w, diag.Newf(diag.CodeInvalidDescriptor, "query", "failed to decode query: %v", err))
		return
	}
	if err := validate.Struct(q); err != nil {
		h.writeError(w, diag.FromValidation("query", err))
		return
	}
	if q.Policy == "" {
		q.Policy = h.cfg.OverflowPolicy
	}
	if q.IDVectorPath == "" {
		q.IDVectorPath = h.cfg.IDVectorPath
	}
	policy, err := idx.ParseOverflowPolicy(q.Policy)
	if err != nil {
		h.writeError(w, err)
		return
	}
	code, err := rust.GenerateIndexTypeFromTokens(q.Name, rust.IndexTypeOptions{Policy: policy, IDVectorPath: q.IDVectorPath})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCode(w, code)
}

func (h *handler) derive(w http.ResponseWriter, r *http.Request) {
	format, err := bodyFormat(r.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	s, err := loader.Decode(body, format, "request")
	if err != nil {
		h.writeError(w, err)
		return
	}

	gen := derivegen.FromSchema(s).SingleFile().WithLogger(h.log)
	if h.cfg.Header != "" {
		gen.Header(h.cfg.Header)
	}
	if h.cfg.OverflowPolicy != "" {
		gen.OverflowPolicy(idx.OverflowPolicy(h.cfg.OverflowPolicy))
	}
	gen.IDVectorPath(h.cfg.IDVectorPath)
	res, err := gen.Generate(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCode(w, string(res.Files[0].Content))
}

func bodyFormat(contentType string) (loader.Format, error) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "", "application/json":
		return loader.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return loader.FormatYAML, nil
	case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return loader.FormatMsgpack, nil
	default:
		return "", diag.Newf(diag.CodeInvalidDescriptor, "request", "unsupported content type %q", contentType)
	}
}

func (h *handler) writeCode(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(code)); err != nil {
		h.log.Debug("write response", zap.Error(err))
	}
}

// Error is the body of a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

type errorResponse struct {
	Error *Error `json:"error"`
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	code := diag.CodeOf(err)
	status := code.HTTPStatus()
	body := &Error{Code: string(code), Message: err.Error(), Hint: diag.Hints(err)}
	if code == "" {
		// Unclassified errors may carry paths or internals.
		body.Code = "internal"
		body.Message = "internal error"
		body.Hint = ""
	}
	if status >= 500 {
		h.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		h.log.Debug("request rejected", zap.String("code", body.Code), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: body}); err != nil {
		// Headers already sent, nothing we can do.
		h.log.Debug("encode error response", zap.Error(err))
	}
}
