/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/polycodec"
	"github.com/suparena/polycodec/config"
	codecerrors "github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/registry"
)

// API is the part of *dynamodb.Client the store calls.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

var _ API = (*sdk.Client)(nil)

// DynamodbDataStore implements datastore.DataStore[T] on a single DynamoDB
// table. Items are encoded with a polycodec configuration, so an interface T
// stores the discriminator of each concrete value next to its fields.
type DynamodbDataStore[T any] struct {
	client      API
	tableName   string
	codec       *polycodec.Options
	indexMaps   *registry.IndexMaps
	keyTemplate map[string]string
	indexes     map[string]SecondaryIndex
	logger      *slog.Logger
}

type storeSettings struct {
	keyTemplate map[string]string
	indexes     []SecondaryIndex
	logger      *slog.Logger
}

// StoreOption configures NewDynamodbDataStore.
type StoreOption func(*storeSettings)

// WithKeyTemplate sets the PK/SK templates GetOne and Delete expand a string
// key into. It defaults to T's own index map, which only exists when T is a
// concrete type.
func WithKeyTemplate(template map[string]string) StoreOption {
	return func(s *storeSettings) {
		s.keyTemplate = template
	}
}

// WithIndexes adds secondary indexes to the defaults.
func WithIndexes(indexes ...SecondaryIndex) StoreOption {
	return func(s *storeSettings) {
		s.indexes = append(s.indexes, indexes...)
	}
}

// WithStoreLogger sets the logger. It defaults to the codec's.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *storeSettings) {
		s.logger = logger
	}
}

// NewDynamodbDataStore constructs a store for T on tableName.
func NewDynamodbDataStore[T any](client API, tableName string, codec *polycodec.Options, indexMaps *registry.IndexMaps, opts ...StoreOption) (*DynamodbDataStore[T], error) {
	if client == nil || tableName == "" || codec == nil || indexMaps == nil {
		return nil, codecerrors.NewConfigurationError("NewDynamodbDataStore", "client, table name, codec and index maps are required")
	}

	var s storeSettings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = codec.Logger()
	}
	if s.keyTemplate == nil {
		s.keyTemplate, _ = indexMaps.Lookup(reflect.TypeOf((*T)(nil)).Elem())
	}

	indexes := make(map[string]SecondaryIndex, len(DefaultIndexes)+len(s.indexes))
	for name, idx := range DefaultIndexes {
		indexes[name] = idx
	}
	for _, idx := range s.indexes {
		indexes[idx.Name] = idx
	}

	return &DynamodbDataStore[T]{
		client:      client,
		tableName:   tableName,
		codec:       codec,
		indexMaps:   indexMaps,
		keyTemplate: s.keyTemplate,
		indexes:     indexes,
		logger:      s.logger,
	}, nil
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when an access key is configured, the default chain otherwise.
func NewDynamoDBClient(ctx context.Context, cfg config.DynamoDB, logger *slog.Logger) (*sdk.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("DynamoDB client initialized",
		slog.String("table", cfg.Table),
		slog.String("region", cfg.Region),
		slog.String("endpoint", cfg.Endpoint))
	return client, nil
}

// NewFromConfig builds the client and the store from loaded settings.
func NewFromConfig[T any](ctx context.Context, cfg *config.Config, codec *polycodec.Options, indexMaps *registry.IndexMaps, opts ...StoreOption) (*DynamodbDataStore[T], error) {
	if cfg.DynamoDB.Table == "" {
		return nil, codecerrors.NewConfigurationError("NewFromConfig", "dynamodb.table is not set")
	}
	client, err := NewDynamoDBClient(ctx, cfg.DynamoDB, codec.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewDynamodbDataStore[T](client, cfg.DynamoDB.Table, codec, indexMaps, opts...)
}

// GetOne expands key through the key template and fetches that item.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, key string) (T, error) {
	var zero T
	keyMap, err := d.lookupKey(key)
	if err != nil {
		return zero, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyMap,
	})
	if err != nil {
		return zero, fmt.Errorf("GetItem error: %w", err)
	}
	if len(out.Item) == 0 {
		return zero, codecerrors.NewNotFoundError(typeName[T](), key)
	}

	result, err := d.decode(out.Item)
	if err != nil {
		return zero, fmt.Errorf("failed to decode item %q: %w", key, err)
	}
	return result, nil
}

// Put encodes entity and writes it with the keys expanded from the index map
// of its concrete type.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	concrete := concreteType(reflect.ValueOf(&entity).Elem())
	if concrete == nil {
		return codecerrors.NewUnsupportedTypeError(typeName[T](), "cannot store a nil entity")
	}
	indexMap, ok := d.indexMaps.Lookup(concrete)
	if !ok {
		return codecerrors.NewNoIndexMapError(concrete.String())
	}

	item, err := polycodec.MarshalItem(d.codec, entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}

	expanded, err := expandMacros(indexMap, item)
	if err != nil {
		return err
	}
	for k, v := range expanded {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.logger.Debug("item stored",
		slog.String("type", concrete.String()),
		slog.String("pk", expanded["PK"]))
	return nil
}

// Delete removes the item stored under key.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, key string) error {
	keyMap, err := d.lookupKey(key)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyMap,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("delete condition failed: %w", err)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (d *DynamodbDataStore[T]) lookupKey(key string) (map[string]types.AttributeValue, error) {
	if d.keyTemplate == nil {
		return nil, codecerrors.NewNoIndexMapError(typeName[T]())
	}
	keyMap, err := buildKey(expandStringKey(d.keyTemplate, key))
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}
	return keyMap, nil
}

func (d *DynamodbDataStore[T]) decode(item map[string]types.AttributeValue) (T, error) {
	var result T
	err := d.codec.UnmarshalItem(item, &result)
	return result, err
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros fills each template from the encoded item. A macro names an
// encoded property holding a string, number or bool.
func expandMacros(indexMap map[string]string, item map[string]types.AttributeValue) (map[string]string, error) {
	res := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		var failed error
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			name := strings.Trim(macro, "{}")
			s, err := keyString(item[name])
			if err != nil && failed == nil {
				failed = fmt.Errorf("index %s: macro %s: %w", field, macro, err)
			}
			return s
		})
		if failed != nil {
			return nil, failed
		}
		res[field] = expanded
	}
	return res, nil
}

func keyString(av types.AttributeValue) (string, error) {
	switch av.(type) {
	case *types.AttributeValueMemberS:
		var s string
		err := attributevalue.Unmarshal(av, &s)
		return s, err
	case *types.AttributeValueMemberN:
		var n attributevalue.Number
		err := attributevalue.Unmarshal(av, &n)
		return string(n), err
	case *types.AttributeValueMemberBOOL:
		var b bool
		err := attributevalue.Unmarshal(av, &b)
		return strconv.FormatBool(b), err
	case nil:
		return "", fmt.Errorf("attribute is missing")
	default:
		return "", fmt.Errorf("attribute of type %T cannot be part of a key", av)
	}
}

// expandStringKey replaces every macro of each template with key.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllLiteralString(template, key)
	}
	return expanded
}

// buildKey builds the primary key from expanded PK and SK values.
func buildKey(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, sk := expanded["PK"], expanded["SK"]
	if pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}
	return attributevalue.MarshalMap(map[string]string{"PK": pk, "SK": sk})
}

// concreteType returns the dynamic type behind v with pointers removed, or
// nil for a nil value.
func concreteType(v reflect.Value) reflect.Type {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Type()
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
