package domain

import "time"

// HomepageSettings is the single editable record behind the storefront
// homepage: branding, hero banner and the three feature tiles.
type HomepageSettings struct {
	SettingsID                string    `json:"id" dynamodbav:"settings_id"`
	SiteName                  string    `json:"site_name" dynamodbav:"site_name"`
	LogoURL                   string    `json:"logo_url" dynamodbav:"logo_url"`
	BannerTitle               string    `json:"banner_title" dynamodbav:"banner_title"`
	BannerSubtitle            string    `json:"banner_subtitle" dynamodbav:"banner_subtitle"`
	BannerBackgroundColor     string    `json:"banner_background_color" dynamodbav:"banner_background_color"`
	BannerTextColor           string    `json:"banner_text_color" dynamodbav:"banner_text_color"`
	BannerButtonPrimaryText   string    `json:"banner_button_primary_text" dynamodbav:"banner_button_primary_text"`
	BannerButtonSecondaryText string    `json:"banner_button_secondary_text" dynamodbav:"banner_button_secondary_text"`
	FeatureDeliveryTitle      string    `json:"feature_delivery_title" dynamodbav:"feature_delivery_title"`
	FeatureDeliverySubtitle   string    `json:"feature_delivery_subtitle" dynamodbav:"feature_delivery_subtitle"`
	FeatureGenuineTitle       string    `json:"feature_genuine_title" dynamodbav:"feature_genuine_title"`
	FeatureGenuineSubtitle    string    `json:"feature_genuine_subtitle" dynamodbav:"feature_genuine_subtitle"`
	FeatureSupportTitle       string    `json:"feature_support_title" dynamodbav:"feature_support_title"`
	FeatureSupportSubtitle    string    `json:"feature_support_subtitle" dynamodbav:"feature_support_subtitle"`
	CreatedAt                 time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt                 time.Time `json:"updated" dynamodbav:"updated_at"`
}

type HomepageSettingsInput struct {
	SiteName                  string `json:"site_name" validate:"required"`
	LogoURL                   string `json:"logo_url"`
	BannerTitle               string `json:"banner_title"`
	BannerSubtitle            string `json:"banner_subtitle"`
	BannerBackgroundColor     string `json:"banner_background_color"`
	BannerTextColor           string `json:"banner_text_color"`
	BannerButtonPrimaryText   string `json:"banner_button_primary_text"`
	BannerButtonSecondaryText string `json:"banner_button_secondary_text"`
	FeatureDeliveryTitle      string `json:"feature_delivery_title"`
	FeatureDeliverySubtitle   string `json:"feature_delivery_subtitle"`
	FeatureGenuineTitle       string `json:"feature_genuine_title"`
	FeatureGenuineSubtitle    string `json:"feature_genuine_subtitle"`
	FeatureSupportTitle       string `json:"feature_support_title"`
	FeatureSupportSubtitle    string `json:"feature_support_subtitle"`
}
