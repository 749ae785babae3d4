package repository

import (
	"context"
	"errors"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProvidersTableName = "providers"

type providerItem struct {
	ID             string  `dynamodbav:"id"`
	Active         bool    `dynamodbav:"active"`
	Balance        float64 `dynamodbav:"balance"`
	PendingBalance float64 `dynamodbav:"pending_balance"`
	TotalEarnings  float64 `dynamodbav:"total_earnings"`
}

// ProviderDynamoRepository persists provider wallet state in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Wallet arithmetic runs server-side as ADD expressions under a condition,
// never as read-modify-write in Go. A failed condition (not enough balance)
// comes back as the zero value, mirroring the guard in
// entities.SettleWithdrawal. Earnings credits and releases are written by
// BookingDynamoRepository inside the completing/confirming transaction.
type ProviderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IProviderRepository = (*ProviderDynamoRepository)(nil)

func NewProviderDynamoRepository(ddb *dynamodb.Client) *ProviderDynamoRepository {
	return &ProviderDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PROVIDERS_TABLE", defaultProvidersTableName),
	}
}

func (r *ProviderDynamoRepository) Get(ctx context.Context, providerID string) (entities.Provider, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: providerID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Provider{}, err
	}
	if len(out.Item) == 0 {
		return entities.Provider{}, nil
	}

	var it providerItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Provider{}, err
	}
	return fromProviderItem(it), nil
}

func (r *ProviderDynamoRepository) DebitBalance(ctx context.Context, providerID string, total float64) (entities.Provider, error) {
	return r.walletUpdate(ctx, providerID,
		"ADD #balance :negative",
		"attribute_exists(#id) AND #balance >= :total",
		map[string]types.AttributeValue{
			":total":    &types.AttributeValueMemberN{Value: floatToString(total)},
			":negative": &types.AttributeValueMemberN{Value: floatToString(-total)},
		},
		map[string]string{
			"#id":      "id",
			"#balance": "balance",
		},
	)
}

func (r *ProviderDynamoRepository) Activate(ctx context.Context, providerID string) (entities.Provider, error) {
	return r.walletUpdate(ctx, providerID,
		"SET #active = :true",
		"attribute_exists(#id)",
		map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
		map[string]string{
			"#id":     "id",
			"#active": "active",
		},
	)
}

func (r *ProviderDynamoRepository) walletUpdate(
	ctx context.Context,
	providerID string,
	update string,
	condition string,
	values map[string]types.AttributeValue,
	names map[string]string,
) (entities.Provider, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: providerID},
		},
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Provider{}, nil
		}
		return entities.Provider{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Provider{}, nil
	}

	var it providerItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Provider{}, err
	}
	return fromProviderItem(it), nil
}

func fromProviderItem(it providerItem) entities.Provider {
	return entities.Provider{
		ID:     it.ID,
		Active: it.Active,
		Wallet: entities.Wallet{
			Balance:        it.Balance,
			PendingBalance: it.PendingBalance,
			TotalEarnings:  it.TotalEarnings,
		},
	}
}
