// ABOUTME: Network import from provider records into the graph store
// ABOUTME: Adds first-degree connections and optionally samples second-degree links
package network

import (
	"context"
	"fmt"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
)

const (
	DefaultMaxConnections = 1000
	DefaultMinStrength    = 0.1

	// SecondDegreeSample bounds how many first-degree connections are expanded.
	SecondDegreeSample = 50
	// SecondDegreePerConnector bounds how many links each expansion adds.
	SecondDegreePerConnector = 20
	// SecondDegreeDiscount scales the raw strength of unverified second-degree links.
	SecondDegreeDiscount = 0.8
)

type ImportOptions struct {
	IncludeSecondDegree bool
	MaxConnections      int
	MinStrength         float64

	// StrengthAdjust, when set, rewrites the scored strength of each
	// first-degree edge. The result is clamped to [0,1].
	StrengthAdjust func(rec models.ConnectionRecord, strength float64) float64
}

// DefaultImportOptions returns first-degree import with the standard limits.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{MaxConnections: DefaultMaxConnections, MinStrength: DefaultMinStrength}
}

type ImportResult struct {
	NodesImported     int      `json:"nodes_imported"`
	EdgesImported     int      `json:"edges_imported"`
	SecondDegreeNodes int      `json:"second_degree_nodes"`
	Errors            []string `json:"errors,omitempty"`
}

func (r *ImportResult) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("network: import problem", "error", msg)
	r.Errors = append(r.Errors, msg)
}

// ImportNetwork adds the owner and their connections. It never fails as a
// whole; per-record problems land in the result's Errors.
func (e *Engine) ImportNetwork(ctx context.Context, owner models.ProfileRecord, conns []models.ConnectionRecord, opts ImportOptions) ImportResult {
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = DefaultMaxConnections
	}
	var result ImportResult

	ownerName := owner.FullName
	if ownerName == "" {
		ownerName = e.ownerID
	}
	e.store.AddNode(models.Node{
		ID:          e.ownerID,
		Kind:        models.NodeSelf,
		DisplayName: ownerName,
		Title:       owner.Title(),
		Company:     owner.CurrentCompany,
		PlatformID:  owner.PlatformID,
		Email:       owner.Email,
	})
	result.NodesImported++

	if len(conns) > opts.MaxConnections {
		conns = conns[:opts.MaxConnections]
	}

	var accepted []models.ConnectionRecord
	for i := range conns {
		rec := conns[i]
		if err := models.ValidateConnectionRecord(&rec); err != nil {
			result.addError("connection %d: %v", i, err)
			continue
		}
		if rec.RelationshipStrength < opts.MinStrength {
			continue
		}

		name := rec.FullName
		if name == "" {
			name = rec.ProfileID
		}
		e.store.AddNode(models.Node{
			ID:          rec.ID,
			Kind:        models.NodeConnection,
			DisplayName: name,
			Title:       rec.Title,
			Company:     rec.Company,
			PlatformID:  rec.ProfileID,
			Email:       rec.Email,
		})
		result.NodesImported++

		edge := e.edgeFromRecord(e.ownerID, rec.ID, rec, true)
		if opts.StrengthAdjust != nil {
			edge.Strength = models.Clamp01(opts.StrengthAdjust(rec, edge.Strength))
		}
		if e.store.AddEdge(edge) {
			result.EdgesImported++
		}
		accepted = append(accepted, rec)
	}

	if opts.IncludeSecondDegree {
		result.SecondDegreeNodes = e.importSecondDegree(ctx, accepted, &result)
	}

	logger.Info("network: import complete",
		"owner", e.ownerID,
		"nodes", result.NodesImported,
		"edges", result.EdgesImported,
		"second_degree", result.SecondDegreeNodes,
		"errors", len(result.Errors))
	return result
}

func (e *Engine) edgeFromRecord(sourceID, targetID string, rec models.ConnectionRecord, verified bool) models.Edge {
	now := e.now()
	strength := e.scorer.EdgeStrength(rec, now)
	if !verified {
		strength = models.Clamp01(rec.RelationshipStrength * SecondDegreeDiscount)
	}
	return models.Edge{
		SourceID:          sourceID,
		TargetID:          targetID,
		Kind:              e.scorer.InferKind(rec),
		Strength:          strength,
		Verified:          verified,
		Context:           e.scorer.DescribeContext(rec, now),
		LastInteractionAt: rec.LastInteractionAt,
		MutualConnections: rec.MutualConnections,
	}
}

func (e *Engine) importSecondDegree(ctx context.Context, firstDegree []models.ConnectionRecord, result *ImportResult) int {
	if e.source == nil {
		result.addError("second-degree import requested but no connection source is configured")
		return 0
	}

	sample := firstDegree
	if len(sample) > SecondDegreeSample {
		sample = sample[:SecondDegreeSample]
	}

	added := 0
	for _, conn := range sample {
		if err := ctx.Err(); err != nil {
			result.addError("second-degree import stopped: %v", err)
			break
		}

		next, err := e.source.GetConnections(ctx, conn.ProfileID)
		if err != nil {
			result.addError("second-degree connections of %s: %v", conn.ID, err)
			continue
		}
		if len(next) > SecondDegreePerConnector {
			next = next[:SecondDegreePerConnector]
		}

		for _, rec := range next {
			if rec.ProfileID == "" || e.store.HasNode(rec.ProfileID) {
				continue
			}
			if _, known := e.store.FindByPlatformID(rec.ProfileID); known {
				continue
			}
			name := rec.FullName
			if name == "" {
				name = rec.ProfileID
			}
			e.store.AddNode(models.Node{
				ID:          rec.ProfileID,
				Kind:        models.NodeExternalContact,
				DisplayName: name,
				Title:       rec.Title,
				Company:     rec.Company,
				PlatformID:  rec.ProfileID,
				Email:       rec.Email,
			})
			if e.store.AddEdge(e.edgeFromRecord(conn.ID, rec.ProfileID, rec, false)) {
				result.EdgesImported++
			}
			added++
		}
	}
	return added
}

// ImportFromSource fetches the owner's profile and connections from the
// configured source and imports them.
func (e *Engine) ImportFromSource(ctx context.Context, ownerIdentity string, opts ImportOptions) ImportResult {
	if e.source == nil {
		var result ImportResult
		result.addError("no connection source is configured")
		return result
	}

	owner, err := e.source.GetProfile(ctx, ownerIdentity)
	if err != nil || owner == nil {
		var result ImportResult
		if err == nil {
			err = fmt.Errorf("profile not found")
		}
		result.addError("failed to import network for %s: %v", ownerIdentity, err)
		return result
	}

	conns, err := e.source.GetConnections(ctx, owner.ID)
	if err != nil {
		result := e.ImportNetwork(ctx, *owner, nil, opts)
		result.addError("failed to fetch connections for %s: %v", owner.ID, err)
		return result
	}
	return e.ImportNetwork(ctx, *owner, conns, opts)
}
