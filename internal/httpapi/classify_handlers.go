package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape"
)

type ClassifyHandler struct {
	CfgVal *atomic.Value
	Now    func() time.Time
}

type classifyReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PostingDate string `json:"posting_date"`
}

type classifyResp struct {
	SponsorsH1B   domain.Sponsorship `json:"sponsors_h1b"`
	Confidence    domain.Confidence  `json:"confidence"`
	KeywordsFound []string           `json:"keywords_found"`
	TargetRole    bool               `json:"target_role"`
	Recent        *bool              `json:"recent,omitempty"`
}

// Classify serves POST /classify with the configured keyword lists.
func (h ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Description) == "" && strings.TrimSpace(req.Title) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty", "title or description required")
		return
	}

	cfg := loadCfg(h.CfgVal)
	res := scrape.Classifier(cfg).Check(req.Description)
	out := classifyResp{
		SponsorsH1B:   res.Sponsors,
		Confidence:    res.Confidence,
		KeywordsFound: res.Keywords,
		TargetRole:    filter.NewRoles(cfg.Search.TargetRoles).Match(req.Title, req.Description),
	}
	if req.PostingDate != "" {
		now := time.Now()
		if h.Now != nil {
			now = h.Now()
		}
		recent := filter.IsWithin24Hours(req.PostingDate, now)
		out.Recent = &recent
	}
	writeJSON(w, out)
}
