package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentops/cvhub/internal/cache"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/domain/cvrecord"
	"github.com/talentops/cvhub/internal/observability"
)

type RecordLister interface {
	List(ctx context.Context) ([]cvrecord.Record, error)
}

const recordsListCacheKey = "cv_records:list:v1"

type CvRecordsHandler struct {
	repo    RecordLister
	cache   cache.Store
	metrics *observability.Prom
}

func NewCvRecordsHandler(repo RecordLister) *CvRecordsHandler {
	return &CvRecordsHandler{repo: repo}
}

func NewCvRecordsHandlerWithCache(repo RecordLister, c cache.Store, metrics *observability.Prom) *CvRecordsHandler {
	return &CvRecordsHandler{repo: repo, cache: c, metrics: metrics}
}

// ListRecords serves every CV record, newest submission first. Any
// authenticated identity may list. The rendered body is cached briefly and
// revalidated via ETag.
func (h *CvRecordsHandler) ListRecords(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if h.cache != nil {
		if body, ok := h.cache.Get(cctx, recordsListCacheKey); ok {
			WriteJSONWithETag(ctx, http.StatusOK, body)
			return
		}
	}

	var records []cvrecord.Record

	err := observeDB(h.metrics, "cv_records.list", func() error {
		var err error
		records, err = h.repo.List(cctx)
		return err
	})

	if err != nil {
		RespondInternal(ctx, err.Error())
		return
	}

	body, err := json.Marshal(records)

	if err != nil {
		RespondInternal(ctx, "Could not encode records")
		return
	}

	if h.cache != nil {
		h.cache.Set(cctx, recordsListCacheKey, body)
	}

	WriteJSONWithETag(ctx, http.StatusOK, body)
}
