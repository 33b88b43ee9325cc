package homepage

import (
	"context"
	"errors"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/dynamo"
)

// Defaults shown before an admin has ever saved the settings.
var defaults = domain.HomepageSettings{
	SettingsID:                dynamo.SettingsKey,
	SiteName:                  "TecBunny Store",
	BannerTitle:               "Welcome to TecBunny",
	BannerSubtitle:            "Quality electronics at honest prices",
	BannerBackgroundColor:     "#2563eb",
	BannerTextColor:           "#ffffff",
	BannerButtonPrimaryText:   "Shop Now",
	BannerButtonSecondaryText: "Learn More",
	FeatureDeliveryTitle:      "Fast Delivery",
	FeatureDeliverySubtitle:   "Orders ship within 24 hours",
	FeatureGenuineTitle:       "Genuine Products",
	FeatureGenuineSubtitle:    "Sourced from authorized distributors",
	FeatureSupportTitle:       "24/7 Support",
	FeatureSupportSubtitle:    "We are here whenever you need us",
}

type Service interface {
	Get(ctx context.Context) (*domain.HomepageSettings, error)
	Upsert(ctx context.Context, in domain.HomepageSettingsInput) (*domain.HomepageSettings, error)
}

type settingsStore interface {
	Get(ctx context.Context) (*domain.HomepageSettings, error)
	Put(ctx context.Context, s *domain.HomepageSettings) error
}

type service struct {
	repo settingsStore
}

func NewService(repo settingsStore) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*domain.HomepageSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d := defaults
			return &d, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *service) Upsert(ctx context.Context, in domain.HomepageSettingsInput) (*domain.HomepageSettings, error) {
	now := time.Now().UTC()
	settings := &domain.HomepageSettings{
		SettingsID:                dynamo.SettingsKey,
		SiteName:                  in.SiteName,
		LogoURL:                   in.LogoURL,
		BannerTitle:               in.BannerTitle,
		BannerSubtitle:            in.BannerSubtitle,
		BannerBackgroundColor:     in.BannerBackgroundColor,
		BannerTextColor:           in.BannerTextColor,
		BannerButtonPrimaryText:   in.BannerButtonPrimaryText,
		BannerButtonSecondaryText: in.BannerButtonSecondaryText,
		FeatureDeliveryTitle:      in.FeatureDeliveryTitle,
		FeatureDeliverySubtitle:   in.FeatureDeliverySubtitle,
		FeatureGenuineTitle:       in.FeatureGenuineTitle,
		FeatureGenuineSubtitle:    in.FeatureGenuineSubtitle,
		FeatureSupportTitle:       in.FeatureSupportTitle,
		FeatureSupportSubtitle:    in.FeatureSupportSubtitle,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	if existing, err := s.repo.Get(ctx); err == nil {
		settings.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Put(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
