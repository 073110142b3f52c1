package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/events"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/logging"
)

// #region health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Crop advisor service running",
	})
}

// #endregion health

// #region predict
func (s *Server) predict(c *gin.Context) {
	var raw predictBody
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body."})
		return
	}
	if missing := raw.missing(); len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, missingFields(missing))
		return
	}
	body := raw.request()
	if body.CropType == "" || body.FarmSize <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "cropType is required and farmSize must be positive."})
		return
	}

	req := body.ToDomain()
	out, err := s.deps.Predictor.Predict(c.Request.Context(), req)
	if err != nil {
		s.deps.Logger.Error("prediction failed", zap.String("request_id", requestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error."})
		return
	}

	entry := logging.PredictionEntry{RequestID: requestID(c), Request: req, Outcome: out}
	s.deps.Logger.Debug("prediction", logging.PredictionFields(entry)...)
	if r := s.eval.RunPrediction(out); !r.Passed {
		s.deps.Logger.Warn("prediction invariant violated", zap.String("request_id", entry.RequestID), zap.String("reason", r.Reason))
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObservePrediction(string(out.Trace.Fusion.Mode), string(out.Trace.Signal.Source))
	}
	if s.deps.AuditDB != nil {
		if _, err := logging.LogPrediction(s.deps.AuditDB, entry); err != nil {
			s.deps.Logger.Warn("audit write failed", zap.Error(err))
		}
	}
	if s.deps.Events != nil {
		s.deps.Events.Dispatch(events.NewPredictionEvent(entry.RequestID, req, out))
	}

	c.JSON(http.StatusOK, NewPredictResponse(out.Prediction))
}

// #endregion predict

// #region analyze-disease
func (s *Server) analyzeDisease(c *gin.Context) {
	var body analyzeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body."})
		return
	}
	if body.Image == nil {
		c.JSON(http.StatusUnprocessableEntity, missingFields([]string{"image"}))
		return
	}

	res, err := s.deps.Diagnoser.Diagnose(*body.Image, body.Language)
	if err != nil {
		if errors.Is(err, diagnosis.ErrDecoding) {
			if s.deps.Metrics != nil {
				s.deps.Metrics.DecodeErrors.Inc()
			}
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid image encoding."})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error."})
		return
	}

	entry := logging.DiagnosisEntry{RequestID: requestID(c), Result: res}
	s.deps.Logger.Debug("diagnosis", logging.DiagnosisFields(entry)...)
	if r := s.eval.RunDiagnosis(res, s.deps.Diagnoser.Table().Classes()); !r.Passed {
		s.deps.Logger.Warn("diagnosis invariant violated", zap.String("request_id", entry.RequestID), zap.String("reason", r.Reason))
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveDiagnosis(res.ClassID)
	}
	if s.deps.AuditDB != nil {
		if _, err := logging.LogDiagnosis(s.deps.AuditDB, entry); err != nil {
			s.deps.Logger.Warn("audit write failed", zap.Error(err))
		}
	}
	if s.deps.Events != nil {
		s.deps.Events.Dispatch(events.NewDiagnosisEvent(entry.RequestID, res))
	}

	c.JSON(http.StatusOK, NewDiseaseResponse(res))
}

// #endregion analyze-disease

func missingFields(names []string) ErrorResponse {
	return ErrorResponse{Detail: "Missing required field(s): " + strings.Join(names, ", ") + "."}
}
