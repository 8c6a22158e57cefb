/*
Package storagemodels defines the query and streaming types shared by the
datastore implementations.

QueryParams:

	params := &QueryParams{
	    KeyConditionExpression: "PK = :pk",
	    ExpressionAttributeValues: map[string]types.AttributeValue{
	        ":pk": &types.AttributeValueMemberS{Value: "SHAPE#c-1"},
	    },
	    IndexName: aws.String("GSI1"),
	}

StreamResult:
Each streamed item is decoded through discriminator resolution. A failure to
decode one item, for example an unknown discriminator, is reported on that
item and does not end the stream:

	for res := range store.Stream(ctx, params, WithPageSize(25)) {
	    if res.Error != nil {
	        log.Printf("item %d: %v", res.Meta.Index, res.Error)
	        continue
	    }
	    use(res.Item)
	}
*/
package storagemodels
