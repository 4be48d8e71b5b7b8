// internal/repository/repotest/dynamo.go

// Package repotest provides in-memory stand-ins for the storage backends.
package repotest

import (
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/driprats/storefront-admin/internal/models"
)

// FakeDynamoDB emulates Scan over a single table keyed by OrderId. Limit caps
// the items evaluated and the filter runs afterwards, as in DynamoDB.
type FakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	mu      sync.Mutex
	items   []map[string]*dynamodb.AttributeValue
	scans   []*dynamodb.ScanInput
	ScanErr error
}

func NewFakeDynamoDB(orders ...models.Order) *FakeDynamoDB {
	f := &FakeDynamoDB{}
	for _, order := range orders {
		item, err := dynamodbattribute.MarshalMap(order)
		if err != nil {
			panic(err)
		}
		f.items = append(f.items, item)
	}
	return f
}

// Scans returns every scan input received so far.
func (f *FakeDynamoDB) Scans() []*dynamodb.ScanInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*dynamodb.ScanInput(nil), f.scans...)
}

func (f *FakeDynamoDB) ScanWithContext(_ aws.Context, in *dynamodb.ScanInput, _ ...request.Option) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scans = append(f.scans, in)
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}

	start := 0
	if key := in.ExclusiveStartKey["OrderId"]; key != nil && key.S != nil {
		for i, item := range f.items {
			if aws.StringValue(item["OrderId"].S) == *key.S {
				start = i + 1
				break
			}
		}
	}

	end := len(f.items)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}

	out := &dynamodb.ScanOutput{Items: []map[string]*dynamodb.AttributeValue{}}
	for _, item := range f.items[start:end] {
		if matchesFilter(in, item) {
			out.Items = append(out.Items, item)
		}
	}
	out.Count = aws.Int64(int64(len(out.Items)))
	out.ScannedCount = aws.Int64(int64(end - start))

	if end < len(f.items) && end > start {
		out.LastEvaluatedKey = map[string]*dynamodb.AttributeValue{
			"OrderId": f.items[end-1]["OrderId"],
		}
	}
	return out, nil
}

func (f *FakeDynamoDB) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := aws.StringValue(in.Item["OrderId"].S)
	for i, item := range f.items {
		if aws.StringValue(item["OrderId"].S) == id {
			f.items[i] = in.Item
			return &dynamodb.PutItemOutput{}, nil
		}
	}
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// matchesFilter understands the single "#name = :value" form the repository emits.
func matchesFilter(in *dynamodb.ScanInput, item map[string]*dynamodb.AttributeValue) bool {
	if in.FilterExpression == nil {
		return true
	}
	attr := aws.StringValue(in.ExpressionAttributeNames["#status"])
	want := in.ExpressionAttributeValues[":status"]
	got := item[attr]
	return got != nil && want != nil && aws.StringValue(got.S) == aws.StringValue(want.S)
}
