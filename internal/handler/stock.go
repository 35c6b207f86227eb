package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockpulse/internal/repository"
	"stockpulse/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type StockHandler struct {
	Resolver *service.Resolver
	Query    *service.QueryService
	Ingest   *service.IngestService
	Logger   *zap.Logger

	// SearchLimit is the default page size on the search route; search
	// pages are small since a miss can trigger a live ingestion.
	SearchLimit int
}

func (h *StockHandler) Register(r *gin.Engine) {
	group := r.Group("/api/stocks")
	group.GET("", h.listStocks)
	group.GET("/search", h.searchStocks)
	group.GET("/:ticker", h.getStock)
	group.GET("/:ticker/price", h.listPrice)
	group.GET("/:ticker/indicators", h.listIndicators)
	group.GET("/:ticker/reddit", h.listReddit)
	group.GET("/:ticker/tweets", h.listTweets)
	group.GET("/:ticker/news", h.listNews)
	group.GET("/:ticker/sentiment", h.getSentiment)
	group.GET("/:ticker/status", h.getStatus)
	group.POST("/:ticker/refresh", h.refreshStock)
	group.DELETE("/:ticker", h.deleteStock)
}

// @Summary List tracked securities
// @Tags stocks
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/stocks [get]
func (h *StockHandler) listStocks(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	page := pageQuery(c, defaultPageSize, maxPageSize)
	items, total, err := h.Query.ListSecurities(c.Request.Context(), page)
	if err != nil {
		h.warn("list stocks failed", err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(page, total))
}

// @Summary Search securities, ingesting unknown tickers on demand
// @Tags stocks
// @Param q query string true "ticker or company name"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/stocks/search [get]
func (h *StockHandler) searchStocks(c *gin.Context) {
	if h.Resolver == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		Error(c, http.StatusBadRequest, "q required", nil)
		return
	}
	searchLimit := h.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultPageSize
	}
	page := pageQuery(c, searchLimit, maxPageSize)
	items, total, err := h.Resolver.Resolve(c.Request.Context(), query, page)
	if err != nil {
		h.warn("search failed", err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(page, total))
}

// @Summary Get one security
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker} [get]
func (h *StockHandler) getStock(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	item, err := h.Query.GetSecurity(c.Request.Context(), tickerParam(c))
	if err != nil {
		h.fail(c, "get stock failed", err)
		return
	}
	Ok(c, item, nil)
}

// @Summary List daily price bars, ascending by timestamp
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Param limit query int false "trailing bar count"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/price [get]
func (h *StockHandler) listPrice(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	bars, err := h.Query.PriceBars(c.Request.Context(), tickerParam(c), intQuery(c, "limit", 0))
	if err != nil {
		h.fail(c, "list price failed", err)
		return
	}
	Ok(c, bars, nil)
}

// @Summary List computed technical indicators
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/indicators [get]
func (h *StockHandler) listIndicators(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Query.Indicators(c.Request.Context(), tickerParam(c))
	if err != nil {
		h.fail(c, "list indicators failed", err)
		return
	}
	Ok(c, items, nil)
}

// @Summary List reddit posts for a ticker
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/reddit [get]
func (h *StockHandler) listReddit(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	page := pageQuery(c, defaultPageSize, maxPageSize)
	items, total, err := h.Query.SocialPosts(c.Request.Context(), tickerParam(c), page)
	if err != nil {
		h.fail(c, "list reddit posts failed", err)
		return
	}
	Ok(c, items, paginationMeta(page, total))
}

// @Summary List tweets for a ticker
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/tweets [get]
func (h *StockHandler) listTweets(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	page := pageQuery(c, defaultPageSize, maxPageSize)
	items, total, err := h.Query.Microblogs(c.Request.Context(), tickerParam(c), page)
	if err != nil {
		h.fail(c, "list tweets failed", err)
		return
	}
	Ok(c, items, paginationMeta(page, total))
}

// @Summary List news articles for a ticker
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/news [get]
func (h *StockHandler) listNews(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	page := pageQuery(c, defaultPageSize, maxPageSize)
	items, total, err := h.Query.NewsItems(c.Request.Context(), tickerParam(c), page)
	if err != nil {
		h.fail(c, "list news failed", err)
		return
	}
	Ok(c, items, paginationMeta(page, total))
}

// @Summary Sentiment label counts for one source
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Param source query string true "tweet|reddit|news"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/sentiment [get]
func (h *StockHandler) getSentiment(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	source, ok := repository.ParseSentimentSource(strings.TrimSpace(c.Query("source")))
	if !ok {
		Error(c, http.StatusBadRequest, "source must be one of tweet, reddit, news", nil)
		return
	}
	counts, err := h.Query.SentimentCounts(c.Request.Context(), tickerParam(c), source)
	if err != nil {
		h.fail(c, "sentiment counts failed", err)
		return
	}
	Ok(c, counts, map[string]any{"source": string(source)})
}

// @Summary Last ingestion state for a ticker
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/status [get]
func (h *StockHandler) getStatus(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	state, err := h.Query.IngestState(c.Request.Context(), tickerParam(c))
	if err != nil {
		h.fail(c, "get ingest state failed", err)
		return
	}
	Ok(c, state, nil)
}

// @Summary Re-run enrichment for a tracked ticker
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker}/refresh [post]
func (h *StockHandler) refreshStock(c *gin.Context) {
	if h.Query == nil || h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	ticker := tickerParam(c)
	if _, err := h.Query.GetSecurity(c.Request.Context(), ticker); err != nil {
		h.fail(c, "refresh failed", err)
		return
	}
	h.Ingest.Enrich(c.Request.Context(), ticker)
	state, err := h.Query.IngestState(c.Request.Context(), ticker)
	if err != nil {
		h.fail(c, "get ingest state failed", err)
		return
	}
	Ok(c, state, nil)
}

// @Summary Remove a security and all its derived rows
// @Tags stocks
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Router /api/stocks/{ticker} [delete]
func (h *StockHandler) deleteStock(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	ticker := tickerParam(c)
	if err := h.Query.DeleteSecurity(c.Request.Context(), ticker); err != nil {
		h.fail(c, "delete stock failed", err)
		return
	}
	Ok(c, gin.H{"ticker": ticker}, nil)
}

func (h *StockHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrTickerNotFound) {
		Error(c, http.StatusNotFound, "ticker not found", nil)
		return
	}
	h.warn(msg, err)
	Error(c, http.StatusInternalServerError, err.Error(), nil)
}

func (h *StockHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
