package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"callpal-go/internal/speech"
	"callpal-go/internal/theme"
	"callpal-go/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into dest. An empty body leaves dest untouched.
func decode(r *http.Request, dest any) error {
	err := json.NewDecoder(r.Body).Decode(dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// modeFor resolves the request mode, falling back to the profile's, then calm.
func (s *Server) modeFor(requested string) types.Mode {
	return types.ParseMode(requested, types.ParseMode(string(s.Profiles.Get().Mode), types.ModeCalm))
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	s.Log.WithRequest(r).WithField("handler", handler).WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}

type extractIntentRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

func (s *Server) extractIntent(w http.ResponseWriter, r *http.Request) {
	var req extractIntentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	intent, err := s.Intents.Extract(r.Context(), req.Message, s.Profiles.Get(), s.modeFor(req.Mode))
	if err != nil {
		s.upstreamError(w, r, "extract-intent", err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

type makeCallRequest struct {
	Intent *types.Intent `json:"intent"`
	Mode   string        `json:"mode"`
}

func (s *Server) makeCall(w http.ResponseWriter, r *http.Request) {
	var req makeCallRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Intent == nil {
		writeError(w, http.StatusBadRequest, "intent is required")
		return
	}
	intent := *req.Intent
	intent.Mode = s.modeFor(req.Mode)

	result, err := s.Calls.Place(r.Context(), intent, s.Profiles.Get())
	if err != nil {
		s.upstreamError(w, r, "make-call", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type transcriptRequest struct {
	CallID string `json:"callId"`
}

type transcriptResponse struct {
	Lines []types.TranscriptLine `json:"lines"`
}

func (s *Server) transcript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CallID == "" {
		writeError(w, http.StatusBadRequest, "callId is required")
		return
	}
	lines, err := s.Transcripts.Get(r.Context(), req.CallID)
	if err != nil {
		s.upstreamError(w, r, "transcript", err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Lines: lines})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Profiles.Get())
}

func (s *Server) patchProfile(w http.ResponseWriter, r *http.Request) {
	patch := map[string]any{}
	if err := decode(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	merged, err := s.Profiles.Merge(patch)
	if err != nil {
		s.upstreamError(w, r, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) scenarios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := types.ParseMode(q.Get("mode"), types.ModeCalm)
	writeJSON(w, http.StatusOK, s.Scenarios.Shape(mode, types.Door(q.Get("door"))))
}

type speakRequest struct {
	Mode    string `json:"mode"`
	Trigger string `json:"trigger"`
	Text    string `json:"text"`
}

type speakResponse struct {
	Audio  string     `json:"audio"`
	Text   string     `json:"text"`
	Mode   types.Mode `json:"mode"`
	Pacing string     `json:"pacing"`
}

func (s *Server) speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mode := types.ParseMode(req.Mode, types.ModeCalm)
	text := speech.TextFor(mode, req.Trigger, req.Text)

	res, err := s.Speech.Generate(r.Context(), text, mode)
	if err != nil {
		s.upstreamError(w, r, "speak", err)
		return
	}
	writeJSON(w, http.StatusOK, speakResponse{Audio: res.Audio, Text: res.Text, Mode: mode, Pacing: speech.Pacing(mode)})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"vapi":         "connected",
		"minimax":      "connected",
		"speechmatics": "connected",
	})
}

func (s *Server) theme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, theme.Lookup(r.URL.Query().Get("favourite")))
}

type onboardingRequest struct {
	Name           string `json:"name"`
	FavouriteThing string `json:"favourite_thing"`
	Mode           string `json:"mode"`
}

func (s *Server) onboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, s.Profiles.Onboard(req.Name, req.FavouriteThing, types.Mode(req.Mode)))
}
