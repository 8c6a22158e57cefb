/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/polycodec/storagemodels"
)

// Stream queries every page of params and sends one result per item. Items
// that fail to decode are sent with Error set; the stream goes on unless the
// ErrorHandler says otherwise. A page that still fails after the retries ends
// the stream with a final error result.
func (d *DynamodbDataStore[T]) Stream(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.BufferSize < 0 {
		options.BufferSize = 0
	}

	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)
	go d.streamWorker(ctx, params, options, resultCh)
	return resultCh
}

type streamState struct {
	itemIndex int64
	pages     int
	failures  int64
	start     time.Time
}

func (s *streamState) meta() storagemodels.StreamMeta {
	return storagemodels.StreamMeta{
		Index:      s.itemIndex,
		PageNumber: s.pages,
		Timestamp:  time.Now(),
	}
}

func (d *DynamodbDataStore[T]) streamWorker(
	ctx context.Context,
	params *storagemodels.QueryParams,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[T],
) {
	defer close(resultCh)

	state := &streamState{start: time.Now()}
	reportProgress := func(lastKey map[string]types.AttributeValue) {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: state.itemIndex,
			PagesProcessed: state.pages,
			DecodeFailures: state.failures,
			LastKey:        lastKey,
			StartTime:      state.start,
		}
		if elapsed := time.Since(state.start).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
		}
		options.ProgressHandler(progress)
	}

	send := func(res storagemodels.StreamResult[T]) bool {
		select {
		case <-ctx.Done():
			return false
		case resultCh <- res:
			return true
		}
	}

	input := d.queryInput(params)
	if options.PageSize > 0 {
		input.Limit = aws.Int32(options.PageSize)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		out, err := d.queryWithRetry(ctx, input, options)
		if err != nil {
			if ctx.Err() == nil {
				send(storagemodels.StreamResult[T]{
					Error: fmt.Errorf("query failed: %w", err),
					Meta:  state.meta(),
				})
			}
			return
		}
		state.pages++

		for _, item := range out.Items {
			result := d.processItem(item, state.meta())
			state.itemIndex++
			if !send(result) {
				return
			}
			if result.Error != nil {
				state.failures++
				d.logger.Warn("stream item could not be decoded",
					slog.Int64("index", result.Meta.Index),
					slog.String("error", result.Error.Error()))
				if options.ErrorHandler != nil && !options.ErrorHandler(result.Error) {
					return
				}
			}
		}

		reportProgress(out.LastEvaluatedKey)

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry retries retryable errors with a linear backoff.
func (d *DynamodbDataStore[T]) queryWithRetry(
	ctx context.Context,
	input *sdk.QueryInput,
	options storagemodels.StreamOptions,
) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", options.MaxRetries, lastErr)
}

// processItem decodes one item through discriminator resolution.
func (d *DynamodbDataStore[T]) processItem(item map[string]types.AttributeValue, meta storagemodels.StreamMeta) storagemodels.StreamResult[T] {
	rawCopy := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		rawCopy[k] = v
	}

	result, err := d.decode(item)
	if err != nil {
		return storagemodels.StreamResult[T]{
			Error: fmt.Errorf("failed to decode item %d: %w", meta.Index, err),
			Raw:   rawCopy,
			Meta:  meta,
		}
	}
	return storagemodels.StreamResult[T]{
		Item: result,
		Raw:  rawCopy,
		Meta: meta,
	}
}

// isRetryableError reports whether a DynamoDB error is transient.
func isRetryableError(err error) bool {
	var pte *types.ProvisionedThroughputExceededException
	var rle *types.RequestLimitExceeded
	var ise *types.InternalServerError
	if errors.As(err, &pte) || errors.As(err, &rle) || errors.As(err, &ise) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
