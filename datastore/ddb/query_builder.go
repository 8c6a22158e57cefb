/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	codecerrors "github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/storagemodels"
)

// SecondaryIndex names a GSI and the attributes holding its keys. The
// attribute names match the keys of the index maps.
type SecondaryIndex struct {
	Name         string
	PartitionKey string
	SortKey      string
}

// DefaultIndexes are known to every store.
var DefaultIndexes = map[string]SecondaryIndex{
	"GSI1": {Name: "GSI1", PartitionKey: "GSI1PK", SortKey: "GSI1SK"},
}

// QueryBuilder builds a key-condition query on the table or on a secondary
// index.
type QueryBuilder[T any] struct {
	store     *DynamodbDataStore[T]
	pkName    string
	skName    string
	indexName *string
	pkValue   string
	skCond    string
	filters   []string
	values    map[string]types.AttributeValue
	limit     *int32
	forward   *bool
	err       error
}

// QueryPartition starts a query for all items whose PK is pk.
func (d *DynamodbDataStore[T]) QueryPartition(pk string) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		store:   d,
		pkName:  "PK",
		skName:  "SK",
		pkValue: pk,
		values:  make(map[string]types.AttributeValue),
	}
}

// OnIndex queries the named secondary index instead of the table.
func (q *QueryBuilder[T]) OnIndex(name string) *QueryBuilder[T] {
	idx, ok := q.store.indexes[name]
	if !ok {
		q.err = codecerrors.NewConfigurationError("OnIndex", fmt.Sprintf("unknown secondary index %q", name))
		return q
	}
	q.indexName = aws.String(idx.Name)
	q.pkName = idx.PartitionKey
	q.skName = idx.SortKey
	return q
}

func (q *QueryBuilder[T]) sortKey(op, value string) *QueryBuilder[T] {
	q.skCond = fmt.Sprintf("#sk %s :sk", op)
	q.values[":sk"] = &types.AttributeValueMemberS{Value: value}
	return q
}

// WithSortKey matches the sort key exactly.
func (q *QueryBuilder[T]) WithSortKey(value string) *QueryBuilder[T] {
	return q.sortKey("=", value)
}

// WithSortKeyPrefix matches sort keys beginning with prefix.
func (q *QueryBuilder[T]) WithSortKeyPrefix(prefix string) *QueryBuilder[T] {
	q.skCond = "begins_with(#sk, :sk)"
	q.values[":sk"] = &types.AttributeValueMemberS{Value: prefix}
	return q
}

// WithSortKeyAfter matches sort keys greater than value.
func (q *QueryBuilder[T]) WithSortKeyAfter(value string) *QueryBuilder[T] {
	return q.sortKey(">", value)
}

// WithSortKeyBefore matches sort keys less than value.
func (q *QueryBuilder[T]) WithSortKeyBefore(value string) *QueryBuilder[T] {
	return q.sortKey("<", value)
}

// WithSortKeyBetween matches sort keys in [start, end].
func (q *QueryBuilder[T]) WithSortKeyBetween(start, end string) *QueryBuilder[T] {
	q.skCond = "#sk BETWEEN :sk AND :sk2"
	q.values[":sk"] = &types.AttributeValueMemberS{Value: start}
	q.values[":sk2"] = &types.AttributeValueMemberS{Value: end}
	return q
}

// Since matches sort keys holding an RFC 3339 timestamp at or after t.
func (q *QueryBuilder[T]) Since(t time.Time) *QueryBuilder[T] {
	return q.sortKey(">=", t.UTC().Format(time.RFC3339Nano))
}

// Between matches sort keys holding an RFC 3339 timestamp in [start, end].
func (q *QueryBuilder[T]) Between(start, end time.Time) *QueryBuilder[T] {
	return q.WithSortKeyBetween(start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano))
}

// WithFilter adds a filter expression. Filters are joined with AND.
func (q *QueryBuilder[T]) WithFilter(expression string, values map[string]types.AttributeValue) *QueryBuilder[T] {
	q.filters = append(q.filters, expression)
	for k, v := range values {
		q.values[k] = v
	}
	return q
}

// WithLimit sets the page size.
func (q *QueryBuilder[T]) WithLimit(limit int32) *QueryBuilder[T] {
	q.limit = aws.Int32(limit)
	return q
}

// Descending returns items in descending sort key order.
func (q *QueryBuilder[T]) Descending() *QueryBuilder[T] {
	q.forward = aws.Bool(false)
	return q
}

// Build constructs the query parameters.
func (q *QueryBuilder[T]) Build() (*storagemodels.QueryParams, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.pkValue == "" {
		return nil, codecerrors.NewConfigurationError("QueryBuilder.Build", "partition key value is required")
	}

	names := map[string]string{"#pk": q.pkName}
	values := make(map[string]types.AttributeValue, len(q.values)+1)
	for k, v := range q.values {
		values[k] = v
	}
	values[":pk"] = &types.AttributeValueMemberS{Value: q.pkValue}

	keyCond := "#pk = :pk"
	if q.skCond != "" {
		keyCond += " AND " + q.skCond
		names["#sk"] = q.skName
	}

	params := &storagemodels.QueryParams{
		TableName:                 q.store.tableName,
		KeyConditionExpression:    keyCond,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		IndexName:                 q.indexName,
		Limit:                     q.limit,
		ScanIndexForward:          q.forward,
	}
	if len(q.filters) > 0 {
		params.FilterExpression = aws.String(strings.Join(q.filters, " AND "))
	}
	return params, nil
}

// Execute runs the query.
func (q *QueryBuilder[T]) Execute(ctx context.Context) ([]T, error) {
	params, err := q.Build()
	if err != nil {
		return nil, err
	}
	return q.store.Query(ctx, params)
}

// Stream runs the query as a stream over every page.
func (q *QueryBuilder[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	params, err := q.Build()
	if err != nil {
		ch := make(chan storagemodels.StreamResult[T], 1)
		ch <- storagemodels.StreamResult[T]{Error: err, Meta: storagemodels.StreamMeta{Timestamp: time.Now()}}
		close(ch)
		return ch
	}
	return q.store.Stream(ctx, params, opts...)
}
