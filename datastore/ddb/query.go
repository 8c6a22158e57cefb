/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/polycodec/storagemodels"
)

// Query runs a single query page and decodes every item into T. Each item is
// resolved to the concrete type its discriminator names; the first item that
// cannot be decoded fails the whole call.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	out, err := d.client.Query(ctx, d.queryInput(params))
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	results := make([]T, 0, len(out.Items))
	for i, item := range out.Items {
		v, err := d.decode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", i, err)
		}
		results = append(results, v)
	}
	return results, nil
}

func (d *DynamodbDataStore[T]) queryInput(params *storagemodels.QueryParams) *sdk.QueryInput {
	table := params.TableName
	if table == "" {
		table = d.tableName
	}
	return &sdk.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String(params.KeyConditionExpression),
		ExpressionAttributeNames:  params.ExpressionAttributeNames,
		ExpressionAttributeValues: params.ExpressionAttributeValues,
		FilterExpression:          params.FilterExpression,
		IndexName:                 params.IndexName,
		Limit:                     params.Limit,
		ExclusiveStartKey:         params.ExclusiveStartKey,
		ScanIndexForward:          params.ScanIndexForward,
	}
}
