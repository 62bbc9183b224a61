package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"factory-matching/internal/models"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories call.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBTables names the tables and index used by the DynamoDB backend.
type DynamoDBTables struct {
	Factories     string
	Consultations string
	RegionIndex   string
}

type DynamoFactoryRepository struct {
	api    DynamoDBAPI
	tables DynamoDBTables
}

func NewDynamoFactoryRepository(api DynamoDBAPI, tables DynamoDBTables) *DynamoFactoryRepository {
	return &DynamoFactoryRepository{api: api, tables: tables}
}

func (r *DynamoFactoryRepository) List(ctx context.Context) ([]models.Factory, error) {
	var out []models.Factory
	if err := scanAll(ctx, r.api, r.tables.Factories, &out); err != nil {
		return nil, err
	}
	sortFactories(out)
	return out, nil
}

// ListByRegion queries the region GSI.
func (r *DynamoFactoryRepository) ListByRegion(ctx context.Context, region string) ([]models.Factory, error) {
	if region == "" {
		return r.List(ctx)
	}

	paginator := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:                aws.String(r.tables.Factories),
		IndexName:                aws.String(r.tables.RegionIndex),
		KeyConditionExpression:   aws.String("#region = :region"),
		ExpressionAttributeNames: map[string]string{"#region": "region"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":region": &types.AttributeValueMemberS{Value: region},
		},
	})

	out := []models.Factory{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", r.tables.Factories, err)
		}
		var batch []models.Factory
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal factories: %w", err)
		}
		out = append(out, batch...)
	}
	sortFactories(out)
	return out, nil
}

func (r *DynamoFactoryRepository) Get(ctx context.Context, id string) (*models.Factory, error) {
	var f models.Factory
	if err := getItem(ctx, r.api, r.tables.Factories, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *DynamoFactoryRepository) Save(ctx context.Context, f models.Factory) error {
	return putItem(ctx, r.api, r.tables.Factories, f)
}

type DynamoConsultationRepository struct {
	api    DynamoDBAPI
	tables DynamoDBTables
}

func NewDynamoConsultationRepository(api DynamoDBAPI, tables DynamoDBTables) *DynamoConsultationRepository {
	return &DynamoConsultationRepository{api: api, tables: tables}
}

func (r *DynamoConsultationRepository) List(ctx context.Context) ([]models.Consultation, error) {
	var out []models.Consultation
	if err := scanAll(ctx, r.api, r.tables.Consultations, &out); err != nil {
		return nil, err
	}
	sortConsultations(out)
	return out, nil
}

func (r *DynamoConsultationRepository) Get(ctx context.Context, id string) (*models.Consultation, error) {
	var c models.Consultation
	if err := getItem(ctx, r.api, r.tables.Consultations, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *DynamoConsultationRepository) Save(ctx context.Context, c models.Consultation) error {
	return putItem(ctx, r.api, r.tables.Consultations, c)
}

func (r *DynamoConsultationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tables.Consultations),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.tables.Consultations, err)
	}
	return nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func getItem(ctx context.Context, api DynamoDBAPI, table, id string, out interface{}) error {
	resp, err := api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       idKey(id),
	})
	if err != nil {
		return fmt.Errorf("get from %s: %w", table, err)
	}
	if len(resp.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return fmt.Errorf("unmarshal %s item: %w", table, err)
	}
	return nil
}

func putItem(ctx context.Context, api DynamoDBAPI, table string, in interface{}) error {
	item, err := attributevalue.MarshalMap(in)
	if err != nil {
		return fmt.Errorf("marshal %s item: %w", table, err)
	}
	if _, err := api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put into %s: %w", table, err)
	}
	return nil
}

// scanAll reads every page of table into out.
func scanAll[T any](ctx context.Context, api DynamoDBAPI, table string, out *[]T) error {
	paginator := dynamodb.NewScanPaginator(api, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})

	items := []T{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return fmt.Errorf("unmarshal %s items: %w", table, err)
		}
		items = append(items, batch...)
	}
	*out = items
	return nil
}
