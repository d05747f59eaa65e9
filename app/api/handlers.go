package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
	"github.com/lysyi3m/lis-comb/app/report"
	"github.com/lysyi3m/lis-comb/app/tasks"
)

func NewHandler(records database.RecordStore, runs database.RunStore, pipeline *cfg.Pipeline,
	roster []amendment.Member, scheduler tasks.TaskSchedulerInterface,
	baseURL, port, version string) *Handler {
	members := make(map[string]amendment.Member, len(roster))
	for _, member := range roster {
		members[member.ID] = member
	}

	return &Handler{
		records:   records,
		runs:      runs,
		pipeline:  pipeline,
		members:   members,
		generator: report.NewGenerator(),
		scheduler: scheduler,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		port:      port,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if recordCount, err := h.records.GetRecordCount(c.Request.Context()); err == nil {
		health["records"] = recordCount
	}

	health["configured_partitions"] = len(h.pipeline.Partitions)
	health["roster_members"] = len(h.members)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": amendment.Categories(),
		"buckets":    report.StoryBuckets(),
	})
}

func (h *Handler) GetFocus(c *gin.Context) {
	params, err := focusParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, ok := h.loadRecords(c, params.Years)
	if !ok {
		return
	}

	focus := report.FocusSlices(records, params)

	var total float64
	for _, s := range focus {
		total += s.TotalAmount
	}

	c.JSON(http.StatusOK, FocusResponse{
		LegislatorID: params.LegislatorID,
		Total:        total,
		Slices:       focus,
		Buckets:      report.StoryBucketSlices(focus),
	})
}

func (h *Handler) GetChart(c *gin.Context) {
	params, err := focusParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	minPercent := report.MinSlicePercent
	if raw := c.Query("min_percent"); raw != "" {
		minPercent, err = strconv.ParseFloat(raw, 64)
		if err != nil || minPercent < 0 || minPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_percent must be a number between 0 and 100"})
			return
		}
	}

	records, ok := h.loadRecords(c, params.Years)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ChartResponse{
		LegislatorID: params.LegislatorID,
		MinPercent:   minPercent,
		Slices:       report.GroupMinorSlices(report.FocusSlices(records, params), minPercent),
	})
}

func (h *Handler) GetRecipients(c *gin.Context) {
	focus, err := focusParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := report.RecipientParams{FocusParams: focus}

	if raw := c.Query("min_confidence"); raw != "" {
		minConfidence, err := strconv.ParseFloat(raw, 64)
		if err != nil || minConfidence < 0 || minConfidence > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be a number between 0 and 1"})
			return
		}
		params.MinConfidence = &minConfidence
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		params.Limit = limit
	}

	records, ok := h.loadRecords(c, focus.Years)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, RecipientsResponse{
		LegislatorID: focus.LegislatorID,
		Recipients:   report.TopRecipients(records, params),
	})
}

func (h *Handler) GetAmendments(c *gin.Context) {
	params, err := h.summaryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, ok := h.loadRecords(c, []int{params.Year})
	if !ok {
		return
	}

	summaries := report.Summaries(records, params)

	c.JSON(http.StatusOK, AmendmentsResponse{
		LegislatorID: params.LegislatorID,
		Year:         params.Year,
		Total:        len(summaries),
		Amendments:   summaries,
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	params, err := h.summaryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, ok := h.loadRecords(c, []int{params.Year})
	if !ok {
		return
	}

	summaries := report.Summaries(records, params)

	info := report.FeedInfo{
		Title:     fmt.Sprintf("%s: %d budget amendment requests", h.displayName(params.LegislatorID), params.Year),
		Link:      h.publicURL(fmt.Sprintf("/legislators/%s/amendments?year=%d", url.PathEscape(params.LegislatorID), params.Year)),
		SelfLink:  h.publicURL(c.Request.URL.RequestURI()),
		Version:   h.version,
		UpdatedAt: time.Now(),
	}

	rss, err := h.generator.Run(info, summaries)
	if err != nil {
		slog.Error("RSS generation error", "legislator", params.LegislatorID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(summaries)))
	c.Header("X-Feed-Legislator", params.LegislatorID)

	c.String(http.StatusOK, rss)
}

func (h *Handler) APIListPartitions(c *gin.Context) {
	states, err := h.runs.ListPartitions(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_partitions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	byKey := make(map[string]database.PartitionState, len(states))
	for _, state := range states {
		byKey[cfg.Partition{Year: state.Year, Bill: state.Bill}.String()] = state
	}

	partitions := make([]PartitionInfo, 0, len(h.pipeline.Partitions))
	for _, p := range h.pipeline.Partitions {
		info := PartitionInfo{
			Year:       p.Year,
			Bill:       p.Bill,
			Session:    p.Session,
			OutputFile: p.OutputFileName(),
		}

		if state, ok := byKey[p.String()]; ok {
			info.Registered = true
			info.LastRunID = state.LastRunID
			info.LastStatus = state.LastStatus
			info.RecordCount = state.RecordCount
			info.LastRunAt = state.LastRunAt
			info.NextRunAt = state.NextRunAt
		}

		partitions = append(partitions, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"partitions": partitions,
		"total":      len(partitions),
	})
}

func (h *Handler) APIListRuns(c *gin.Context) {
	partition, ok := h.partitionParam(c)
	if !ok {
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), partition.Year, partition.Bill, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "partition", partition.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]RunInfo, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunInfo{
			ID:         run.ID,
			Status:     run.Status,
			Members:    run.Members,
			Records:    run.Records,
			Failures:   run.Failures,
			Error:      run.Error,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Duration:   run.Duration().String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"partition": partition.String(),
		"runs":      out,
	})
}

func (h *Handler) APIScrapePartition(c *gin.Context) {
	partition, ok := h.partitionParam(c)
	if !ok {
		return
	}

	if err := h.scheduler.EnqueueScrape(partition); err != nil {
		if errors.Is(err, tasks.ErrAlreadyScheduled) {
			c.JSON(http.StatusConflict, gin.H{"error": "Scrape already scheduled", "partition": partition.String()})
			return
		}
		slog.Error("Error enqueueing scrape task", "partition", partition.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue scrape task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":   true,
		"message":   "Scrape task enqueued",
		"partition": partition.String(),
	})
}

func (h *Handler) loadRecords(c *gin.Context, years []int) ([]amendment.Record, bool) {
	records, err := h.records.ListRecords(c.Request.Context(), database.RecordFilter{Years: years})
	if err != nil {
		slog.Error("Database error", "operation", "list_records", "years", years, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	return records, true
}

func (h *Handler) partitionParam(c *gin.Context) (cfg.Partition, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return cfg.Partition{}, false
	}

	bill := strings.ToUpper(c.Param("bill"))
	partition, ok := h.pipeline.Find(year, bill)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partition not configured"})
		return cfg.Partition{}, false
	}

	return partition, true
}

// summaryParams defaults the year to the latest configured session.
func (h *Handler) summaryParams(c *gin.Context) (report.SummaryParams, error) {
	params := report.SummaryParams{Identity: report.Identity{LegislatorID: c.Param("id")}}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid year: %s", raw)
		}
		params.Year = year
	} else {
		for _, p := range h.pipeline.Partitions {
			params.Year = max(params.Year, p.Year)
		}
	}

	bill, err := billFilter(c.Query("bill"))
	if err != nil {
		return params, err
	}
	params.BillFilter = bill

	params.Dedupe, err = dedupeMode(c.Query("dedupe"))
	return params, err
}

func focusParams(c *gin.Context) (report.FocusParams, error) {
	params := report.FocusParams{Identity: report.Identity{LegislatorID: c.Param("id")}}

	if raw := c.Query("years"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			year, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return params, fmt.Errorf("invalid year: %s", part)
			}
			if !slices.Contains(params.Years, year) {
				params.Years = append(params.Years, year)
			}
		}
	}

	bill, err := billFilter(c.Query("bill"))
	if err != nil {
		return params, err
	}
	params.BillFilter = bill

	switch chamber := c.Query("chamber"); chamber {
	case "", "both", string(amendment.ChamberHouse), string(amendment.ChamberSenate):
		params.Chamber = chamber
	default:
		return params, fmt.Errorf("invalid chamber: %s", chamber)
	}

	params.Dedupe, err = dedupeMode(c.Query("dedupe"))
	return params, err
}

// HB-only and SB-only only narrow summaries; focus queries accept and ignore them.
func billFilter(raw string) (report.BillFilter, error) {
	filter := report.BillFilter(raw)
	switch filter {
	case "", report.BillFilterAll, report.BillFilterBoth, report.BillFilterHouse, report.BillFilterSenate,
		report.BillFilterHBOnly, report.BillFilterSBOnly:
		return filter, nil
	}
	return "", fmt.Errorf("invalid bill filter: %s", raw)
}

func dedupeMode(raw string) (report.DedupeMode, error) {
	mode := report.DedupeMode(raw)
	switch mode {
	case "", report.DedupeAll, report.DedupeUnique:
		return mode, nil
	}
	return "", fmt.Errorf("invalid dedupe mode: %s", raw)
}

func (h *Handler) displayName(legislatorID string) string {
	member, ok := h.members[legislatorID]
	if !ok {
		return legislatorID
	}

	prefix := "Del."
	if member.Chamber == amendment.ChamberSenate {
		prefix = "Sen."
	}
	return fmt.Sprintf("%s %s", prefix, member.FullName)
}

func (h *Handler) publicURL(path string) string {
	if h.baseURL != "" {
		return h.baseURL + path
	}
	return fmt.Sprintf("http://localhost:%s%s", h.port, path)
}
