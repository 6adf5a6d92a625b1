package dynamo_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/repository/dynamo"
)

// fakeTable is a single table DynamoDB stand-in understanding the
// expressions built by the repository.
type fakeTable struct {
	mu      sync.Mutex
	keyAttr string
	items   map[string]map[string]types.AttributeValue
	batches int
	tables  map[string]bool
	err     error
}

func newFakeTable(keyAttr string) *fakeTable {
	return &fakeTable{keyAttr: keyAttr, items: map[string]map[string]types.AttributeValue{}, tables: map[string]bool{}}
}

func keyOf(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (f *fakeTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key[f.keyAttr])]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	k := keyOf(in.Item[f.keyAttr])
	_, exists := f.items[k]
	cond := aws.ToString(in.ConditionExpression)

	switch {
	case strings.Contains(cond, "attribute_not_exists") && exists,
		strings.HasPrefix(cond, "attribute_exists") && !exists:
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional request failed")}
	}

	f.items[k] = in.Item

	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := keyOf(in.Key[f.keyAttr])
	old := f.items[k]
	delete(f.items, k)

	return &dynamodb.DeleteItemOutput{Attributes: old}, nil
}

func (f *fakeTable) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	out := &dynamodb.ScanOutput{}

	for _, item := range f.items {
		if in.FilterExpression != nil {
			attr := in.ExpressionAttributeNames["#0"]
			want := keyOf(in.ExpressionAttributeValues[":0"])

			if got, ok := item[attr]; !ok || keyOf(got) != want {
				continue
			}
		}

		out.Count++

		if in.Select != types.SelectCount {
			out.Items = append(out.Items, item)
		}
	}

	return out, nil
}

func (f *fakeTable) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batches++

	for _, reqs := range in.RequestItems {
		for _, r := range reqs {
			f.items[keyOf(r.PutRequest.Item[f.keyAttr])] = r.PutRequest.Item
		}
	}

	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeTable) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.tables[aws.ToString(in.TableName)] {
		return nil, &types.ResourceNotFoundException{Message: aws.String("no such table")}
	}

	return &dynamodb.DescribeTableOutput{}, nil
}

func (f *fakeTable) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tables[aws.ToString(in.TableName)] = true

	return &dynamodb.CreateTableOutput{}, nil
}

func newRepo(t *testing.T) (*dynamo.Repository[models.Setting, string], *fakeTable) {
	t.Helper()

	fake := newFakeTable("key")

	repo, err := dynamo.New[models.Setting, string](fake, "settings", "key")
	require.NoError(t, err)

	return repo, fake
}

func TestNew(t *testing.T) {
	_, err := dynamo.New[models.Setting, string](newFakeTable("key"), "", "key")
	require.ErrorIs(t, err, dynamo.ErrNoTable)

	_, err = dynamo.New[models.Setting, string](nil, "settings", "key")
	require.ErrorIs(t, err, repository.ErrDBNil)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Add(ctx, &models.Setting{Key: "theme", Value: "dark", Category: "UI", IsUserEditable: true})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "theme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dark", got.Value)
	assert.True(t, got.IsUserEditable)
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddDuplicate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Add(ctx, &models.Setting{Key: "theme", Value: "dark"})
	require.NoError(t, err)

	_, err = repo.Add(ctx, &models.Setting{Key: "theme", Value: "light"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value)

	_, err = repo.Add(ctx, &models.Setting{Value: "no key"})
	require.ErrorIs(t, err, repository.ErrEmptyID)
}

func TestUpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Update(ctx, &models.Setting{Key: "theme", Value: "dark"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.Add(ctx, &models.Setting{Key: "theme", Value: "dark"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, &models.Setting{Key: "theme", Value: "light"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got.Value)
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Add(ctx, &models.Setting{Key: "theme", Value: "dark"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFindByAndBatch(t *testing.T) {
	ctx := context.Background()
	repo, fake := newRepo(t)

	settings := make([]models.Setting, 0, 30)
	for i := range 30 {
		category := "UI"
		if i%3 == 0 {
			category = "Mail"
		}

		settings = append(settings, models.Setting{Key: fmt.Sprintf("k%02d", i), Value: "v", Category: category})
	}

	require.NoError(t, repo.AddBatch(ctx, settings))
	assert.Equal(t, 2, fake.batches)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 30)

	mail, err := repo.FindBy(ctx, "category", "Mail")
	require.NoError(t, err)
	assert.Len(t, mail, 10)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), count)
}

func TestScanError(t *testing.T) {
	repo, fake := newRepo(t)
	fake.err = errors.New("throttled")

	_, err := repo.GetAll(context.Background())
	require.ErrorContains(t, err, "throttled")

	_, err = repo.Add(context.Background(), &models.Setting{Key: "a"})
	require.ErrorContains(t, err, "throttled")
}

func TestEnsureTable(t *testing.T) {
	fake := newFakeTable("key")

	require.NoError(t, dynamo.EnsureTable(context.Background(), fake, "settings", "key"))
	assert.True(t, fake.tables["settings"])

	require.NoError(t, dynamo.EnsureTable(context.Background(), fake, "settings", "key"))
}
