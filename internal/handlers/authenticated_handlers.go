package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"Bundespredict/internal/auth"
	"Bundespredict/internal/game"
	"Bundespredict/internal/services"
)

type PredictRequest struct {
	Choice string `form:"choice" binding:"required"`
}

func parseChoice(s string) (game.Label, bool) {
	switch s {
	case "win":
		return game.Win, true
	case "not_win":
		return game.NotWin, true
	}
	return "", false
}

// getSession resolves the session named in the cookie. A stale cookie
// (server restart, finished game) sends the player back to the start.
func (h *Handler) getSession(c *gin.Context) (*game.Session, bool) {
	claims, err := auth.GetClaims(c)
	if err != nil {
		redirect(c, "/")
		return nil, false
	}
	sess, err := h.Sessions.Get(claims.SessionID)
	if err != nil {
		slog.Info("Session cookie without a running game", "session", claims.SessionID)
		auth.ClearCookie(c)
		redirect(c, "/")
		return nil, false
	}
	return sess, true
}

// GetGame renders whichever stage the session is in: the match to predict,
// the result of the last prediction, or the final scoreboard.
func (h *Handler) GetGame(c *gin.Context) {
	sess, ok := h.getSession(c)
	if !ok {
		return
	}
	h.renderGame(c, sess.Snapshot(), sess, "")
}

func (h *Handler) Predict(c *gin.Context) {
	sess, ok := h.getSession(c)
	if !ok {
		return
	}

	req := PredictRequest{}
	if err := c.ShouldBind(&req); err != nil {
		h.renderGame(c, sess.Snapshot(), sess, "Pick a side before predicting.")
		return
	}
	choice, valid := parseChoice(req.Choice)
	if !valid {
		h.renderGame(c, sess.Snapshot(), sess, "Unknown prediction.")
		return
	}

	snap, err := sess.Predict(choice, h.Model)
	if errors.Is(err, game.ErrRoundEvaluated) {
		// double submit, just show the result
		redirect(c, "/game")
		return
	}
	if err != nil {
		slog.Error("Error evaluating prediction", "session", sess.ID, "error", err)
		h.renderError(c, http.StatusInternalServerError, "The model could not make a prediction. Please try again later.")
		return
	}
	slog.Info("Round evaluated",
		"session", snap.ID,
		"round", snap.Round.Number,
		"user", snap.Round.Evaluation.User,
		"model", snap.Round.Evaluation.Model,
		"actual", snap.Round.Evaluation.Actual,
		"score", snap.Score,
	)
	redirect(c, "/game")
}

func (h *Handler) NextMatch(c *gin.Context) {
	sess, ok := h.getSession(c)
	if !ok {
		return
	}
	if _, err := sess.Next(h.Sampler); err != nil && !errors.Is(err, game.ErrGameOver) && !errors.Is(err, game.ErrRoundPending) {
		slog.Error("Error advancing round", "session", sess.ID, "error", err)
	}
	redirect(c, "/game")
}

// NewGame discards the session and returns to the landing page.
func (h *Handler) NewGame(c *gin.Context) {
	if claims, err := auth.GetClaims(c); err == nil {
		h.Sessions.Delete(claims.SessionID)
	}
	auth.ClearCookie(c)
	redirect(c, "/")
}

func (h *Handler) GetRadar(c *gin.Context) {
	sess, ok := h.getSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, game.MatchRadar(sess.Snapshot().Round.Match, h.Salaries))
}

func (h *Handler) renderGame(c *gin.Context, snap game.Snapshot, sess *game.Session, errMessage string) {
	m := snap.Round.Match
	title := cases.Title(language.English)

	data := gin.H{
		"Username":     snap.Username,
		"Round":        snap.Round.Number,
		"Rounds":       game.RoundsPerGame,
		"Score":        snap.Score,
		"Match":        m,
		"Venue":        title.String(m.Venue),
		"Day":          title.String(m.Day),
		"TeamLogo":     h.Logos.Team(m.Team),
		"OpponentLogo": h.Logos.Team(m.Opponent),
		"Evaluation":   snap.Round.Evaluation,
		"Finished":     snap.Finished,
		"Error":        errMessage,
	}

	if !snap.Round.Evaluated() {
		radar, err := json.Marshal(game.MatchRadar(m, h.Salaries))
		if err != nil {
			slog.Error("Error encoding radar chart", "error", err)
		} else {
			data["Radar"] = template.JS(radar)
		}
	}

	if snap.Finished {
		final, err := services.RecordFinalScore(c.Request.Context(), h.Scoreboard, h.Feed, sess)
		if err != nil {
			h.renderError(c, http.StatusInternalServerError, "Your score could not be saved to the scoreboard. Reload the page to try again.")
			return
		}
		data["Final"] = final
	}

	c.HTML(http.StatusOK, "game.html", data)
}
