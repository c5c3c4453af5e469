package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/midicritic/constants"
	"github.com/jsphweid/midicritic/db"
	"github.com/jsphweid/midicritic/feedback"
	"github.com/jsphweid/midicritic/midi"
	"github.com/jsphweid/midicritic/model"
	"github.com/jsphweid/midicritic/summary"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// base64 of a few MB of MIDI is plenty
const maxRequestBytes = 32 << 20

var allowedHeaders = []string{
	"authorization", "x-client-info", "apikey", "content-type",
	"x-supabase-client-platform", "x-supabase-client-platform-version",
	"x-supabase-client-runtime", "x-supabase-client-runtime-version",
}

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analyze API",
	Long:  `Serves POST /analyze and GET /analyses/{id}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := LoadServer()
		if err != nil {
			return err
		}
		if port == "" {
			port = constants.GetPort()
		}
		log.Infof("Listening on :%v", port)
		return http.ListenAndServe(":"+port, NewRouter(s))
	},
}

type AnalysisStore interface {
	PutAnalysis(ctx context.Context, a model.Analysis) error
	GetAnalyses(ctx context.Context, ids []string) (map[string]model.Analysis, error)
}

// Server holds the optional collaborators of the handlers. Either may be nil.
type Server struct {
	Feedback feedback.Generator
	Store    AnalysisStore
}

func LoadServer() (*Server, error) {
	var s Server

	client, err := feedback.NewClientFromEnv()
	switch {
	case errors.Is(err, feedback.ErrNotConfigured):
		log.Warn("FEEDBACK_API_KEY is not set, only summaries will be returned")
	case err != nil:
		return nil, err
	default:
		s.Feedback = client
	}

	if constants.PersistenceEnabled() {
		store, err := db.NewStoreFromEnv()
		if err != nil {
			return nil, err
		}
		s.Store = store
	}
	return &s, nil
}

func NewRouter(s *Server) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", s.HandleAnalyze).Methods(http.MethodPost)
	router.HandleFunc("/analyses/{id}", s.HandleGetAnalysis).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: allowedHeaders,
	})
	return c.Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Could not write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var input model.AnalyzeRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not decode request body: "+err.Error())
		return
	}
	if input.MidiBase64 == "" {
		writeError(w, http.StatusBadRequest, "No MIDI data provided")
		return
	}

	res := model.AnalyzeResponse{Id: uuid.New().String()}
	logger := log.WithFields(log.Fields{"id": res.Id, "file": input.FileName})

	parsed, err := midi.ParseBase64(input.MidiBase64)
	if err != nil {
		logger.Warnf("Using degraded summary because: %v", err)
		res.Summary = summary.Degraded()
	} else {
		res.Summary = summary.Summarize(parsed.Notes, parsed.MaxTick)
		logger.WithField("notes", res.Summary.TotalNotes).Debug("Summarized upload")
	}

	if s.Feedback != nil {
		req := feedback.Request{FileName: input.FileName, FileSize: input.FileSize, Instruments: input.Instruments}
		prompt, err := feedback.BuildPrompt(req, res.Summary)
		if err == nil {
			res.Analysis, err = s.Feedback.Generate(r.Context(), prompt)
		}
		switch {
		case errors.Is(err, feedback.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded.")
			return
		case err != nil:
			logger.Errorf("analyze-midi error: %v", err)
			writeError(w, http.StatusInternalServerError, errors.Cause(err).Error())
			return
		}
	}

	if s.Store != nil {
		a := model.Analysis{
			Id:          res.Id,
			FileName:    input.FileName,
			FileSize:    input.FileSize,
			Instruments: input.Instruments,
			Summary:     res.Summary,
			Feedback:    res.Analysis,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.Store.PutAnalysis(r.Context(), a); err != nil {
			logger.Errorf("Could not store analysis: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, "Analyses are not being stored")
		return
	}

	id := mux.Vars(r)["id"]
	found, err := s.Store.GetAnalyses(r.Context(), []string{id})
	if err != nil {
		log.WithField("id", id).Errorf("Could not load analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "Could not load analysis")
		return
	}
	a, ok := found[id]
	if !ok {
		writeError(w, http.StatusNotFound, "No analysis with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, model.AnalyzeResponse{Id: a.Id, Summary: a.Summary, Analysis: a.Feedback})
}
