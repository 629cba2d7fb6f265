package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendcast/config"
	"trendcast/types"
)

// RegisterAuthRoutes registers the OAuth login, callback, and status
// endpoints.
func RegisterAuthRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/auth")
	g.GET("/login", handleLogin(deps))
	g.GET("/callback", handleCallback(deps))
	g.GET("/status", handleStatus(deps))
}

// handleLogin redirects the browser to the Google consent screen.
func handleLogin(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !deps.Auth.Configured() {
			log.Printf("Login error: Google OAuth credentials are not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate login"})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, deps.Auth.LoginURL())
	}
}

// handleCallback exchanges the authorization code for tokens, creates the
// server-side session, and hands the browser an opaque session cookie.
func handleCallback(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.Redirect(http.StatusTemporaryRedirect, "/?error=no_code")
			return
		}

		session, err := deps.Auth.Exchange(c.Request.Context(), code)
		if err != nil {
			log.Printf("Callback error: %v", err)
			c.Redirect(http.StatusTemporaryRedirect, "/?error=auth_failed")
			return
		}

		setSessionCookie(c, deps.Config, session.ID)
		c.Redirect(http.StatusTemporaryRedirect, "/")
	}
}

// handleStatus reports whether the caller holds a live session, including
// channel details when the lookup succeeds. A failed lookup triggers one
// silent token refresh and a single retry.
func handleStatus(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		session, ok := sessionFromRequest(c, deps)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}

		channel, err := deps.YouTube.ChannelInfo(ctx, deps.Auth.Client(ctx, session))
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "channel": channel})
			return
		}

		// Access token may have expired; try exactly one refresh.
		refreshed, rerr := deps.Auth.Refresh(ctx, session)
		if rerr != nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}

		channel, err = deps.YouTube.ChannelInfo(ctx, deps.Auth.Client(ctx, refreshed))
		if err != nil {
			// Token refreshed fine but the lookup still failed; the
			// session itself is good.
			c.JSON(http.StatusOK, gin.H{"authenticated": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "channel": channel})
	}
}

// setSessionCookie stores the opaque session id in a secure, http-only,
// site-wide cookie living as long as the refresh token.
func setSessionCookie(c *gin.Context, cfg config.Config, sessionID string) {
	c.SetCookie(
		config.SessionCookie,
		sessionID,
		int(config.RefreshTokenTTL.Seconds()),
		"/",
		"",
		cfg.SecureCookies,
		true,
	)
}

// sessionFromRequest resolves the session cookie to a live session record.
func sessionFromRequest(c *gin.Context, deps Deps) (types.Session, bool) {
	id, err := c.Cookie(config.SessionCookie)
	if err != nil || id == "" {
		return types.Session{}, false
	}
	session, err := deps.Auth.Session(c.Request.Context(), id)
	if err != nil {
		return types.Session{}, false
	}
	return session, true
}
