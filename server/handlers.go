package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reoring/castkit"
	"github.com/reoring/castkit/jsonschema"
	"github.com/reoring/castkit/middleware"
	"github.com/reoring/castkit/pokeapi"
	"github.com/reoring/castkit/viewer"
)

// MaxPageLimit bounds the limit query parameter.
const MaxPageLimit = 1000

// CodeInvalidQuery reports a malformed query parameter.
const CodeInvalidQuery = "invalid_query"

// listResponse is the body of GET /api/pokemon.
type listResponse struct {
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
	Results []viewer.Entry `json:"results"`
}

// castResponse is the body of POST /api/cast/:type.
type castResponse struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listPokemon(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0, 0, -1)
	if err != nil {
		middleware.Abort(c, http.StatusBadRequest, middleware.NewError(CodeInvalidQuery, err.Error()))
		return
	}
	limit, err := queryInt(c, "limit", pokeapi.DefaultPageLimit, 1, MaxPageLimit)
	if err != nil {
		middleware.Abort(c, http.StatusBadRequest, middleware.NewError(CodeInvalidQuery, err.Error()))
		return
	}

	entries, err := s.viewer.List(c.Request.Context(), pokeapi.Page{Offset: offset, Limit: limit})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Offset: offset, Limit: limit, Results: entries})
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.viewer.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getSprite(c *gin.Context) {
	sprite, err := s.viewer.Sprite(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, sprite.ContentType, sprite.Data)
}

func (s *Server) getSchema(c *gin.Context) {
	c.JSON(http.StatusOK, castkit.ExportJSONSchema(s.caster.Registry()))
}

func (s *Server) getTypeSchema(c *gin.Context) {
	name := c.Param("type")
	if _, ok := s.caster.Registry().Lookup(name); !ok {
		middleware.Abort(c, http.StatusNotFound, middleware.NewError(middleware.CodeNotFound, fmt.Sprintf("unknown type %q", name)))
		return
	}
	doc := castkit.ExportJSONSchema(s.caster.Registry())
	doc.Ref = jsonschema.RefTo(name).Ref
	c.JSON(http.StatusOK, doc)
}

func (s *Server) cast(c *gin.Context) {
	d, ok := middleware.GetDecoded(c)
	if !ok {
		s.fail(c, errors.New("decoded body missing"))
		return
	}
	c.JSON(http.StatusOK, castResponse{Type: d.Type, Value: d.Value})
}

// fail maps err to a status and writes the error payload.
func (s *Server) fail(c *gin.Context, err error) {
	status, payload := http.StatusBadGateway, middleware.NewError(middleware.CodeUpstream, err.Error())
	switch {
	case errors.Is(err, pokeapi.ErrNotFound), errors.Is(err, viewer.ErrNoSprite):
		status, payload = http.StatusNotFound, middleware.NewError(middleware.CodeNotFound, err.Error())
	default:
		if _, ok := castkit.AsValidationError(err); ok {
			status, payload = http.StatusUnprocessableEntity, middleware.ErrorPayload(err)
		}
	}
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Errorw("request failed", "error", err)
	}
	middleware.Abort(c, status, payload)
}

// queryInt reads an integer query parameter within [lo, hi]; a negative hi
// leaves it unbounded.
func queryInt(c *gin.Context, key string, def, lo, hi int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", key, raw)
	}
	if v < lo || (hi >= 0 && v > hi) {
		return 0, fmt.Errorf("%s: out of range: %d", key, v)
	}
	return v, nil
}
