// Package dynamo implements repository.Repository on a single DynamoDB table.
//
// Items are (un)marshalled with the dynamodbav struct tags of the models, the
// partition key attribute is configured per repository. Add and Update use
// condition expressions, so a taken key or a missing item is detected by
// DynamoDB itself and never overwrites data.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/repository"
)

// maxBatchWrite is the DynamoDB limit of items per BatchWriteItem call.
const maxBatchWrite = 25

// ErrNoTable is returned when a repository is created without table name.
var ErrNoTable = errors.New("dynamodb table name is empty")

// API is the part of *dynamodb.Client used by Repository.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// TableAPI is used by EnsureTable.
type TableAPI interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// NewClient creates a DynamoDB client from the default AWS credential chain.
// A configured endpoint (DynamoDB local, localstack) replaces the AWS one.
func NewClient(ctx context.Context, cfg config.DynamoDB) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// EnsureTable creates table with a string partition key when it does not exist yet.
func EnsureTable(ctx context.Context, api TableAPI, table, keyAttr string) error {
	_, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	_, err = api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(keyAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(keyAttr), KeyType: types.KeyTypeHash},
		},
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	return nil
}

// Repository stores T as items of one table.
type Repository[T repository.Entity[K], K comparable] struct {
	api     API
	table   string
	keyAttr string
}

// New creates a repository, keyAttr is the partition key attribute name.
func New[T repository.Entity[K], K comparable](api API, table, keyAttr string) (*Repository[T, K], error) {
	if table == "" {
		return nil, ErrNoTable
	}

	if api == nil {
		return nil, repository.ErrDBNil
	}

	if keyAttr == "" {
		keyAttr = "id"
	}

	return &Repository[T, K]{api: api, table: table, keyAttr: keyAttr}, nil
}

func (r *Repository[T, K]) key(id K) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	return map[string]types.AttributeValue{r.keyAttr: av}, nil
}

// GetAll scans the whole table.
func (r *Repository[T, K]) GetAll(ctx context.Context) ([]T, error) {
	return r.scan(ctx, nil)
}

// FindBy scans for items whose attribute equals value.
func (r *Repository[T, K]) FindBy(ctx context.Context, attr string, value any) ([]T, error) {
	filter := expression.Name(attr).Equal(expression.Value(value))

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	return r.scan(ctx, &expr)
}

func (r *Repository[T, K]) scan(ctx context.Context, expr *expression.Expression) ([]T, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if expr != nil {
		in.FilterExpression = expr.Filter()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	out := []T{}

	p := dynamodb.NewScanPaginator(r.api, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}

		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}

		out = append(out, items...)
	}

	return out, nil
}

// GetByID returns nil, nil for an unknown id.
func (r *Repository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}

	res, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if len(res.Item) == 0 {
		return nil, nil //nolint:nilnil
	}

	var out T
	if err := attributevalue.UnmarshalMap(res.Item, &out); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}

	return &out, nil
}

// Exists reports whether id is stored.
func (r *Repository[T, K]) Exists(ctx context.Context, id K) (bool, error) {
	item, err := r.GetByID(ctx, id)

	return item != nil, err
}

// Add puts entity unless its key is already taken.
func (r *Repository[T, K]) Add(ctx context.Context, entity *T) (*T, error) {
	repository.Prepare(entity, true)

	if repository.IsZero((*entity).EntityID()) {
		return nil, repository.ErrEmptyID
	}

	cond := expression.AttributeNotExists(expression.Name(r.keyAttr))
	if err := r.put(ctx, entity, cond); err != nil {
		if isConditionFailed(err) {
			return nil, repository.ErrAlreadyExists
		}

		return nil, err
	}

	return entity, nil
}

// Update replaces an existing item.
func (r *Repository[T, K]) Update(ctx context.Context, entity *T) (*T, error) {
	if repository.IsZero((*entity).EntityID()) {
		return nil, repository.ErrNotFound
	}

	repository.Prepare(entity, false)

	cond := expression.AttributeExists(expression.Name(r.keyAttr))
	if err := r.put(ctx, entity, cond); err != nil {
		if isConditionFailed(err) {
			return nil, repository.ErrNotFound
		}

		return nil, err
	}

	return entity, nil
}

func (r *Repository[T, K]) put(ctx context.Context, entity *T, cond expression.ConditionBuilder) error {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	return nil
}

// AddBatch writes entities in chunks of 25 without duplicate checks,
// existing items are overwritten. Used for seeding.
func (r *Repository[T, K]) AddBatch(ctx context.Context, entities []T) error {
	for start := 0; start < len(entities); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(entities))

		requests := make([]types.WriteRequest, 0, end-start)

		for i := start; i < end; i++ {
			repository.Prepare(&entities[i], true)

			item, err := attributevalue.MarshalMap(&entities[i])
			if err != nil {
				return fmt.Errorf("marshal item: %w", err)
			}

			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		pending := map[string][]types.WriteRequest{r.table: requests}

		for len(pending) > 0 {
			out, err := r.api.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch write: %w", err)
			}

			pending = out.UnprocessedItems
		}
	}

	return nil
}

// Delete removes id and reports whether it existed.
func (r *Repository[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	key, err := r.key(id)
	if err != nil {
		return false, err
	}

	out, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}

	return len(out.Attributes) > 0, nil
}

// Count scans the table with Select COUNT.
func (r *Repository[T, K]) Count(ctx context.Context) (int64, error) {
	var total int64

	p := dynamodb.NewScanPaginator(r.api, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Select:    types.SelectCount,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", r.table, err)
		}

		total += int64(page.Count)
	}

	return total, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException

	return errors.As(err, &ccf)
}
