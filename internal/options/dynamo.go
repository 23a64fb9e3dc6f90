package options

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps option rows in a DynamoDB table keyed by option_name
type DynamoStore struct {
	client    DynamoAPI
	tableName string
}

// DynamoConfig holds DynamoDB connection settings
type DynamoConfig struct {
	Table     string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewDynamoClient builds a DynamoDB client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
// Endpoint overrides the service URL, for DynamoDB Local.
func NewDynamoClient(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewDynamoStore creates an option store on an existing client
func NewDynamoStore(client DynamoAPI, tableName string) (*DynamoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client cannot be nil")
	}
	if tableName == "" {
		return nil, fmt.Errorf("dynamodb table name cannot be empty")
	}
	return &DynamoStore{client: client, tableName: tableName}, nil
}

func (s *DynamoStore) key(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"option_name": &types.AttributeValueMemberS{Value: name},
	}
}

// Get returns a single row
func (s *DynamoStore) Get(ctx context.Context, name string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb get %s: %w", name, err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}

	var opt Option
	if err := attributevalue.UnmarshalMap(out.Item, &opt); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal option %s: %w", name, err)
	}
	return opt.Value, true, nil
}

// Scan returns all rows with the prefix, sorted by name
func (s *DynamoStore) Scan(ctx context.Context, prefix string) ([]Option, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	}
	if prefix != "" {
		input.FilterExpression = aws.String("begins_with(option_name, :prefix)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		}
	}

	result := make([]Option, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan %s: %w", prefix, err)
		}

		var opts []Option
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &opts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}
		for _, opt := range opts {
			if strings.HasPrefix(opt.Name, prefix) {
				result = append(result, opt)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Set inserts or replaces a row
func (s *DynamoStore) Set(ctx context.Context, name, value string) error {
	item, err := attributevalue.MarshalMap(Option{Name: name, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal option %s: %w", name, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put %s: %w", name, err)
	}
	return nil
}

// Delete removes a row
func (s *DynamoStore) Delete(ctx context.Context, name string) error {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          s.key(name),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete %s: %w", name, err)
	}
	if len(out.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}
