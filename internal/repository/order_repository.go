// internal/repository/order_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/driprats/storefront-admin/internal/config"
	"github.com/driprats/storefront-admin/internal/models"
)

const orderKeyAttribute = "OrderId"

// OrderPage is one scan page. LastEvaluatedKey is nil on the final page.
type OrderPage struct {
	Orders           []models.Order
	LastEvaluatedKey map[string]*dynamodb.AttributeValue
}

type OrderRepository struct {
	client    dynamodbiface.DynamoDBAPI
	tableName string
}

func NewOrderRepository(client dynamodbiface.DynamoDBAPI, tableName string) *OrderRepository {
	return &OrderRepository{client: client, tableName: tableName}
}

// NewDynamoDBClient builds a client from static credentials when given, or
// from the default provider chain otherwise.
func NewDynamoDBClient(cfg config.DynamoConfig) (*dynamodb.DynamoDB, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.Credentialed() {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return dynamodb.New(sess), nil
}

// ScanOrders reads one page of the orders table. A non-empty status is pushed
// down as a filter expression, which DynamoDB applies after Limit, so a page
// may hold fewer than limit orders while more remain.
func (r *OrderRepository) ScanOrders(ctx context.Context, status models.OrderStatus, limit int, startKey map[string]*dynamodb.AttributeValue) (*OrderPage, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int64(int64(limit)),
	}
	if len(startKey) > 0 {
		input.ExclusiveStartKey = startKey
	}
	if status != "" {
		input.FilterExpression = aws.String("#status = :status")
		input.ExpressionAttributeNames = map[string]*string{"#status": aws.String("Status")}
		input.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":status": {S: aws.String(string(status))},
		}
	}

	out, err := r.client.ScanWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	orders := []models.Order{}
	if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	page := &OrderPage{Orders: orders}
	if len(out.LastEvaluatedKey) > 0 {
		page.LastEvaluatedKey = out.LastEvaluatedKey
	}
	return page, nil
}

// PutOrder writes a full order item. Only the seeder uses it; order writes
// belong to the order-management backend.
func (r *OrderRepository) PutOrder(ctx context.Context, order models.Order) error {
	item, err := dynamodbattribute.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to encode order %s: %w", order.OrderID, err)
	}

	_, err = r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put order %s: %w", order.OrderID, err)
	}
	return nil
}

// EnsureTable creates the orders table on local endpoints that lack it.
func (r *OrderRepository) EnsureTable(ctx context.Context) error {
	_, err := r.client.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err == nil {
		return nil
	}

	var aerr awserr.Error
	if !errors.As(err, &aerr) || aerr.Code() != dynamodb.ErrCodeResourceNotFoundException {
		return fmt.Errorf("failed to describe table %s: %w", r.tableName, err)
	}

	_, err = r.client.CreateTableWithContext(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(r.tableName),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String(orderKeyAttribute), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String(orderKeyAttribute), KeyType: aws.String(dynamodb.KeyTypeHash)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.tableName, err)
	}

	return r.client.WaitUntilTableExistsWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
}
