package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/hydrawhois/internal/api/models"
	"github.com/jroosing/hydrawhois/internal/server"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// Whois godoc
// @Summary WHOIS lookup
// @Description Queries the root server, follows its referral and parses the answer.
// @Description With direct=true only the given (or root) server is queried.
// @Tags whois
// @Produce json
// @Param domain path string true "Domain name"
// @Param server query string false "Hop-1 server as host:port (defaults to the configured root)"
// @Param direct query bool false "Query the server only, without following a referral"
// @Param raw query bool false "Include the raw response text"
// @Success 200 {object} models.WhoisResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.WhoisResponse
// @Failure 422 {object} models.WhoisResponse
// @Failure 429 {object} models.WhoisResponse
// @Failure 502 {object} models.WhoisResponse
// @Failure 504 {object} models.WhoisResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /whois/{domain} [get]
func (h *Handler) Whois(c *gin.Context) {
	svc := h.GetLookups()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "lookup service unavailable"})
		return
	}

	raw, err := queryBool(c, "raw")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	direct, err := queryBool(c, "direct")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	srv := strings.TrimSpace(c.Query("server"))
	if srv != "" {
		if _, _, err := whois.SplitServer(srv); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Kind: whois.KindOf(err).String()})
			return
		}
	}

	res, err := svc.Lookup(c.Request.Context(), server.LookupRequest{
		Domain: c.Param("domain"),
		Server: srv,
		Direct: direct,
	})
	if res == nil {
		status := http.StatusInternalServerError
		if errors.Is(err, server.ErrInvalidDomain) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{Error: err.Error()})
		return
	}

	resp := models.WhoisResponse{
		ID:             res.ID,
		Domain:         res.Domain,
		RootServer:     res.RootServer,
		ReferralServer: res.ReferralServer,
		Outcome:        res.Outcome,
		DurationMs:     res.Duration.Milliseconds(),
		Record:         res.Record,
	}
	if raw {
		resp.Raw = res.Raw
	}
	if err != nil {
		kind := whois.KindOf(err)
		resp.Error = err.Error()
		resp.Kind = kind.String()
		c.JSON(StatusForKind(kind), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StatusForKind maps a lookup failure to an HTTP status.
func StatusForKind(k whois.Kind) int {
	switch k {
	case whois.KindMalformedServer:
		return http.StatusBadRequest
	case whois.KindNoReferral:
		return http.StatusNotFound
	case whois.KindDateFormat:
		return http.StatusUnprocessableEntity
	case whois.KindRateLimited:
		return http.StatusTooManyRequests
	case whois.KindTimeout:
		return http.StatusGatewayTimeout
	case whois.KindCanceled:
		// nginx convention for a client that went away
		return 499
	case whois.KindConnect, whois.KindEmptyResponse, whois.KindEncoding,
		whois.KindIO, whois.KindResponseTooLarge:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func queryBool(c *gin.Context, name string) (bool, error) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("query parameter " + name + " must be a boolean")
	}
	return b, nil
}
