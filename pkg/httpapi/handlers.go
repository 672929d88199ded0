package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelhq/semanticmap/internal/reduce/chunk"
	"github.com/kestrelhq/semanticmap/internal/reduce/embed"
	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
	"github.com/kestrelhq/semanticmap/internal/reduce/pca"
	"github.com/kestrelhq/semanticmap/internal/reduce/topk"
	"github.com/kestrelhq/semanticmap/internal/reduce/umap"
	"github.com/kestrelhq/semanticmap/pkg/httpapi/cache"
	"github.com/kestrelhq/semanticmap/pkg/store"
)

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleStats handles GET /v1/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountChunks()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats := map[string]interface{}{
		"chunks": count,
	}
	if s.cache != nil {
		cs := s.cache.Stats()
		stats["cache"] = map[string]interface{}{
			"size":     cs.Size,
			"hits":     cs.Hits,
			"misses":   cs.Misses,
			"hit_rate": cs.HitRate,
		}
	}
	writeJSON(w, stats, http.StatusOK)
}

// ingestRequest is the POST /v1/ingest body: a named source document,
// chunked by token overlap and embedded before being persisted.
type ingestRequest struct {
	Source          string `json:"source"`
	Content         string `json:"content"`
	TokensPerChunk  int    `json:"tokens_per_chunk"`
	Overlap         int    `json:"overlap"`
	Dim             int    `json:"dim"`
}

// handleIngest handles POST /v1/ingest.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	batchID := uuid.NewString()

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" || req.Content == "" {
		writeError(w, "source and content are required", http.StatusBadRequest)
		return
	}
	if req.TokensPerChunk <= 0 {
		req.TokensPerChunk = 1000
	}
	if req.Dim <= 0 {
		req.Dim = s.cfg.Embed.Dimensions
	}

	chunks := chunk.ByTokenOverlap(req.Content, req.TokensPerChunk, req.Overlap)
	for i, text := range chunks {
		vector := embed.Embed(text, req.Dim)
		if _, err := s.store.InsertChunk(req.Source, int64(i), text, vector); err != nil {
			s.metrics.RecordStoreWriteError()
			s.logger.Error("ingest batch failed", map[string]interface{}{
				"batch_id": batchID, "source": req.Source, "chunk_index": i, "error": err.Error(),
			})
			writeError(w, "failed to persist chunk: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	total, err := s.store.CountChunks()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordIngest(time.Since(start), len(chunks))
	if s.cache != nil {
		s.cache.Clear() // stored corpus changed; stale query results are no longer valid
	}
	s.logger.Info("ingest batch complete", map[string]interface{}{
		"batch_id": batchID, "source": req.Source, "chunks": len(chunks),
	})

	writeJSON(w, map[string]interface{}{
		"batch_id":   batchID,
		"source":     req.Source,
		"chunks":     len(chunks),
		"total_rows": total,
	}, http.StatusOK)
}

// handleSearch handles GET /v1/search?q=&k=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, "q is required", http.StatusBadRequest)
		return
	}
	k := 10
	if ks := r.URL.Query().Get("k"); ks != "" {
		if v, err := strconv.Atoi(ks); err == nil && v > 0 {
			k = v
		}
	}
	dim := s.cfg.Embed.Dimensions

	qvec := embed.Embed(query, dim)

	var cacheKey cache.Key
	if s.cache != nil {
		cacheKey = cache.QueryKey(qvec, k)
		if cached, found := s.cache.Get(cacheKey); found {
			s.metrics.RecordCacheHit()
			writeJSON(w, map[string]interface{}{"results": toSearchResults(s, cached)}, http.StatusOK)
			return
		}
		s.metrics.RecordCacheMiss()
	}

	chunks, err := s.store.AllChunks()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	population := make([][]float32, len(chunks))
	for i, c := range chunks {
		population[i] = c.Vector
	}
	results := topk.ByCosine(qvec, population, k)

	if s.cache != nil {
		s.cache.Put(cacheKey, results)
	}
	s.metrics.RecordSearch(time.Since(start), len(results))

	writeJSON(w, map[string]interface{}{"results": toSearchResultsFromChunks(results, chunks)}, http.StatusOK)
}

type searchResult struct {
	Source     string  `json:"source"`
	ChunkIndex int64   `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

func toSearchResultsFromChunks(scored []topk.Scored, chunks []store.ChunkRecord) []searchResult {
	out := make([]searchResult, len(scored))
	for i, s := range scored {
		c := chunks[s.Index]
		out[i] = searchResult{Source: c.Source, ChunkIndex: c.ChunkIndex, Text: c.Text, Score: s.Score}
	}
	return out
}

// toSearchResults re-resolves cached (index, score) pairs against the
// current store contents. Indices are only valid for the store state
// they were computed against; a cache entry surviving past an ingest is
// invalidated by handleIngest's Clear(), so this is safe.
func toSearchResults(s *Server, scored []topk.Scored) []searchResult {
	chunks, err := s.store.AllChunks()
	if err != nil {
		return nil
	}
	return toSearchResultsFromChunks(scored, chunks)
}

// reduceRequest is the POST /v1/reduce body: project the embedding of
// every chunk matching source (or the whole corpus) down to dims for
// scatter-plot consumption.
type reduceRequest struct {
	Method string      `json:"method"` // "umap" (default) or "pca"
	Dims   int         `json:"dims"`
	Source string      `json:"source"` // optional filter
	Params *umapParams `json:"params"`
}

type umapParams struct {
	NNeighbors         int     `json:"n_neighbors"`
	NEpochs            int     `json:"n_epochs"`
	MinDist            float32 `json:"min_dist"`
	Spread             float32 `json:"spread"`
	LearningRate       float32 `json:"learning_rate"`
	NegativeSampleRate int     `json:"negative_sample_rate"`
	SetOpMixRatio      float32 `json:"set_op_mix_ratio"`
	RepulsionStrength  float32 `json:"repulsion_strength"`
	RandomState        uint64  `json:"random_state"`
}

type reducedPoint struct {
	Source     string    `json:"source"`
	ChunkIndex int64     `json:"chunk_index"`
	Text       string    `json:"text_preview"`
	Coords     []float32 `json:"coords"`
}

// handleReduce handles POST /v1/reduce.
func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req reduceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Dims < 1 || req.Dims > 3 {
		writeError(w, "dims must be 1, 2, or 3", http.StatusBadRequest)
		return
	}
	if req.Method == "" {
		req.Method = "umap"
	}

	chunks, err := s.store.AllChunks()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if req.Source != "" {
		filtered := chunks[:0]
		for _, c := range chunks {
			if c.Source == req.Source {
				filtered = append(filtered, c)
			}
		}
		chunks = filtered
	}
	if len(chunks) == 0 {
		writeJSON(w, map[string]interface{}{"points": []reducedPoint{}}, http.StatusOK)
		return
	}

	rows := make([][]float32, len(chunks))
	for i, c := range chunks {
		rows[i] = c.Vector
	}
	m := matrix.FromRows(rows)

	var out matrix.Matrix
	if req.Method == "pca" {
		out, err = pca.Reduce(m, req.Dims)
		s.metrics.RecordReduceFallback()
	} else {
		p := umap.DefaultParams()
		if req.Params != nil {
			applyUmapParams(&p, req.Params)
		}
		out, err = umap.ReduceCosine(m, req.Dims, p)
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.RecordReduce(req.Method, time.Since(start), len(chunks))

	points := make([]reducedPoint, len(chunks))
	for i, c := range chunks {
		points[i] = reducedPoint{
			Source:     c.Source,
			ChunkIndex: c.ChunkIndex,
			Text:       preview(c.Text, 160),
			Coords:     out.Row(i),
		}
	}
	writeJSON(w, map[string]interface{}{"points": points}, http.StatusOK)
}

func applyUmapParams(p *umap.Params, req *umapParams) {
	if req.NNeighbors > 0 {
		p.NNeighbors = req.NNeighbors
	}
	if req.NEpochs > 0 {
		p.NEpochs = req.NEpochs
	}
	if req.MinDist > 0 {
		p.MinDist = req.MinDist
	}
	if req.Spread > 0 {
		p.Spread = req.Spread
	}
	if req.LearningRate > 0 {
		p.LearningRate = req.LearningRate
	}
	if req.NegativeSampleRate > 0 {
		p.NegativeSampleRate = req.NegativeSampleRate
	}
	if req.SetOpMixRatio > 0 {
		p.SetOpMixRatio = req.SetOpMixRatio
	}
	if req.RepulsionStrength > 0 {
		p.RepulsionStrength = req.RepulsionStrength
	}
	if req.RandomState > 0 {
		p.RandomState = req.RandomState
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}
