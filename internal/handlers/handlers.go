package handlers

import (
	"crypto/subtle"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Bundespredict/internal/auth"
	"Bundespredict/internal/feed"
	"Bundespredict/internal/game"
	"Bundespredict/internal/logos"
	"Bundespredict/internal/model"
	"Bundespredict/internal/scoreboard"
	"Bundespredict/internal/services"
)

// TemplateFuncs must be set on the engine before the templates are loaded.
var TemplateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type Handler struct {
	Sessions   *services.Sessions
	Sampler    *game.Sampler
	Model      model.Classifier
	Scoreboard scoreboard.Store
	Feed       *feed.Feed
	Salaries   game.SalaryRange
	Logos      logos.Resolver
	Secret     string
	AdminToken string
}

func (h *Handler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// GetLanding shows the rules, the username form and the current scoreboard.
func (h *Handler) GetLanding(c *gin.Context) {
	h.renderLanding(c, http.StatusOK, "", "")
}

func (h *Handler) renderLanding(c *gin.Context, status int, username, errMessage string) {
	entries, err := h.Scoreboard.Load(c.Request.Context())
	if err != nil {
		slog.Error("Error loading scoreboard for landing page", "error", err)
		h.renderError(c, http.StatusInternalServerError, "The scoreboard is unavailable right now. Please try again later.")
		return
	}
	c.HTML(status, "landing.html", gin.H{
		"LeagueLogo": h.Logos.League(),
		"Rounds":     game.RoundsPerGame,
		"Suggestion": services.SuggestUsername(),
		"Username":   username,
		"Error":      errMessage,
		"Scoreboard": entries,
	})
}

// StartGame validates the username, opens a session and points the browser at it.
func (h *Handler) StartGame(c *gin.Context) {
	req := services.StartRequest{}
	if err := c.ShouldBind(&req); err != nil {
		h.renderLanding(c, http.StatusBadRequest, "", "Bad request. Please try again.")
		return
	}

	username, errMessage, err := services.ValidateUsername(c.Request.Context(), h.Scoreboard, req.Username)
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, errMessage)
		return
	}
	if errMessage != "" {
		h.renderLanding(c, http.StatusOK, req.Username, errMessage)
		return
	}

	sess := h.Sessions.Start(username, h.Sampler)
	token, err := auth.IssueToken(h.Secret, auth.Claims{SessionID: sess.ID, Username: username})
	if err != nil {
		slog.Error("Error issuing session token", "error", err)
		h.Sessions.Delete(sess.ID)
		h.renderError(c, http.StatusInternalServerError, "There was a problem starting the game. Please try again later.")
		return
	}
	auth.SetCookie(c, token)
	redirect(c, "/game")
}

func (h *Handler) GetScoreboard(c *gin.Context) {
	entries, err := h.Scoreboard.Load(c.Request.Context())
	if err != nil {
		slog.Error("Error loading scoreboard", "error", err)
		h.renderError(c, http.StatusInternalServerError, "The scoreboard is unavailable right now. Please try again later.")
		return
	}
	c.HTML(http.StatusOK, "scoreboard.html", gin.H{"Scoreboard": entries})
}

func (h *Handler) GetScoreboardJSON(c *gin.Context) {
	entries, err := h.Scoreboard.Load(c.Request.Context())
	if err != nil {
		slog.Error("Error loading scoreboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scoreboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ResetScoreboard empties the scoreboard. It is only routed when an admin token is configured.
func (h *Handler) ResetScoreboard(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if h.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.AdminToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := services.ResetScoreboard(c.Request.Context(), h.Scoreboard, h.Feed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scoreboard reset"})
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}

// redirect sends htmx requests an HX-Redirect and everything else a 303.
func redirect(c *gin.Context, path string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", path)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, path)
}
