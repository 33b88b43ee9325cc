package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/storefront-api/internal/domain"
)

// SettingsKey is the fixed partition key of the single homepage settings item.
const SettingsKey = "homepage"

// HomepageRepo stores the singleton homepage settings record.
type HomepageRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewHomepageRepo(client *dynamodb.Client, tableName string) *HomepageRepo {
	return &HomepageRepo{client: client, tableName: tableName}
}

func (r *HomepageRepo) Get(ctx context.Context) (*domain.HomepageSettings, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("settings_id", SettingsKey),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("homepage settings not found: %w", domain.ErrNotFound)
	}
	var s domain.HomepageSettings
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *HomepageRepo) Put(ctx context.Context, s *domain.HomepageSettings) error {
	s.SettingsID = SettingsKey
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal homepage settings: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
