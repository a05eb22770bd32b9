package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/repository"
)

// guideScanLimit caps the fallback case-insensitive scan so a fuzzy lookup
// never walks the whole collection.
const guideScanLimit = 50

// GuideResolver resolves a canonical guide identity from a supplied id
// and/or display name. It is best-effort: a miss or a store failure
// degrades to the originally supplied values so a paid confirmation is
// never aborted by resolution.
type GuideResolver struct {
	repo   repository.GuideRepository
	logger *zap.Logger
}

func NewGuideResolver(repo repository.GuideRepository, logger *zap.Logger) *GuideResolver {
	return &GuideResolver{repo: repo, logger: logger}
}

// Resolve returns the canonical guide, or a non-existent result carrying
// only the supplied id and name when nothing matches.
func (r *GuideResolver) Resolve(ctx context.Context, guideID, guideName string) *models.Guide {
	fallback := &models.Guide{ID: guideID, Name: guideName, Exists: false}
	if r.repo == nil {
		return fallback
	}

	if guideID != "" {
		g, err := r.repo.FindByID(ctx, guideID)
		if err != nil {
			r.logger.Warn("Guide lookup by id failed",
				zap.String("guide_id", guideID),
				zap.Error(err),
			)
			return fallback
		}
		if g != nil {
			if g.BestName() == "" {
				g.Name = guideName
			}
			return g
		}
	}

	if guideName != "" {
		g, err := r.repo.FindByExactName(ctx, guideName)
		if err != nil {
			r.logger.Warn("Guide lookup by name failed",
				zap.String("guide_name", guideName),
				zap.Error(err),
			)
			return fallback
		}
		if g != nil {
			return g
		}

		g, err = r.repo.ScanByNameFold(ctx, guideName, guideScanLimit)
		if err != nil {
			r.logger.Warn("Guide case-insensitive scan failed",
				zap.String("guide_name", guideName),
				zap.Error(err),
			)
			return fallback
		}
		if g != nil {
			return g
		}
	}

	r.logger.Info("Guide not found, degrading to supplied identity",
		zap.String("guide_id", guideID),
		zap.String("guide_name", guideName),
	)
	return fallback
}
