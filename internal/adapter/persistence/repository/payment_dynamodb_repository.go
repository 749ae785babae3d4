package repository

import (
	"context"
	"errors"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsBookingIndex     = "booking_code-index"
)

type breakdownItem struct {
	ServiceAmount float64 `dynamodbav:"service_amount,omitempty"`
	AddOnsAmount  float64 `dynamodbav:"add_ons_amount,omitempty"`
	PlatformFee   float64 `dynamodbav:"platform_fee,omitempty"`
	Taxes         float64 `dynamodbav:"taxes,omitempty"`
	Discount      float64 `dynamodbav:"discount,omitempty"`
}

type paymentItem struct {
	Reference   string        `dynamodbav:"reference"`
	UserID      string        `dynamodbav:"user_id"`
	BookingCode string        `dynamodbav:"booking_code,omitempty"`
	Type        string        `dynamodbav:"type"`
	Method      string        `dynamodbav:"method"`
	Status      string        `dynamodbav:"status"`
	Amount      float64       `dynamodbav:"amount"`
	Currency    string        `dynamodbav:"currency"`
	Breakdown   breakdownItem `dynamodbav:"breakdown"`
	FailReason  string        `dynamodbav:"fail_reason,omitempty"`
	PaidAt      string        `dynamodbav:"paid_at,omitempty"`
	CreatedAt   string        `dynamodbav:"created_at"`
	UpdatedAt   string        `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists ledger entries in DynamoDB.
//
// Table requirements:
//   - PK: reference (string, the gateway's external reference)
//   - GSI: booking_code-index (PK: booking_code)
//
// Entries are append-mostly: the only mutations are the three conditional
// status marks, each guarded so that a redelivered webhook or a retried
// trigger observes a failed condition and gets the zero value back.
type PaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENTS_TABLE", defaultPaymentsTableName),
	}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#reference)"),
		ExpressionAttributeNames: map[string]string{
			"#reference": "reference",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Payment{}, interfaces.ErrDuplicateReference
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByReference(ctx context.Context, reference string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"reference": &types.AttributeValueMemberS{Value: reference},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) ListByBookingCode(ctx context.Context, code string) ([]entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsBookingIndex),
		KeyConditionExpression: aws.String("#booking_code = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
		ExpressionAttributeNames: map[string]string{
			"#booking_code": "booking_code",
		},
	})
	if err != nil {
		return nil, err
	}

	payments := make([]entities.Payment, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		payments = append(payments, fromPaymentItem(it))
	}
	return payments, nil
}

func (r *PaymentDynamoRepository) MarkCompletedIfPending(ctx context.Context, reference string, paidAt time.Time) (entities.Payment, error) {
	return r.conditionalMark(ctx, reference,
		"SET #status = :completed, #paid_at = :paid_at, #updated_at = :updated_at",
		"attribute_exists(#reference) AND #status IN (:pending, :processing)",
		map[string]types.AttributeValue{
			":completed":  &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)},
			":paid_at":    &types.AttributeValueMemberS{Value: paidAt.UTC().Format(time.RFC3339Nano)},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			":pending":    &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPending)},
			":processing": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusProcessing)},
		},
		map[string]string{
			"#reference":  "reference",
			"#status":     "status",
			"#paid_at":    "paid_at",
			"#updated_at": "updated_at",
		},
	)
}

func (r *PaymentDynamoRepository) MarkFailed(ctx context.Context, reference, reason string) (entities.Payment, error) {
	return r.conditionalMark(ctx, reference,
		"SET #status = :failed, #fail_reason = :reason, #updated_at = :updated_at",
		"attribute_exists(#reference) AND #status IN (:pending, :processing)",
		map[string]types.AttributeValue{
			":failed":     &types.AttributeValueMemberS{Value: string(entities.PaymentStatusFailed)},
			":reason":     &types.AttributeValueMemberS{Value: reason},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			":pending":    &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPending)},
			":processing": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusProcessing)},
		},
		map[string]string{
			"#reference":   "reference",
			"#status":      "status",
			"#fail_reason": "fail_reason",
			"#updated_at":  "updated_at",
		},
	)
}

func (r *PaymentDynamoRepository) MarkRefundedIfCompleted(ctx context.Context, reference string) (entities.Payment, error) {
	return r.conditionalMark(ctx, reference,
		"SET #status = :refunded, #updated_at = :updated_at",
		"attribute_exists(#reference) AND #status = :completed",
		map[string]types.AttributeValue{
			":refunded":   &types.AttributeValueMemberS{Value: string(entities.PaymentStatusRefunded)},
			":completed":  &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		map[string]string{
			"#reference":  "reference",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
	)
}

func (r *PaymentDynamoRepository) conditionalMark(
	ctx context.Context,
	reference string,
	update string,
	condition string,
	values map[string]types.AttributeValue,
	names map[string]string,
) (entities.Payment, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"reference": &types.AttributeValueMemberS{Value: reference},
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
			return entities.Payment{}, nil
		}
		return entities.Payment{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		Reference:   p.Reference,
		UserID:      p.UserID,
		BookingCode: p.BookingCode,
		Type:        string(p.Type),
		Method:      string(p.Method),
		Status:      string(p.Status),
		Amount:      p.Amount,
		Currency:    p.Currency,
		Breakdown: breakdownItem{
			ServiceAmount: p.Breakdown.ServiceAmount,
			AddOnsAmount:  p.Breakdown.AddOnsAmount,
			PlatformFee:   p.Breakdown.PlatformFee,
			Taxes:         p.Breakdown.Taxes,
			Discount:      p.Breakdown.Discount,
		},
		FailReason: p.FailReason,
		PaidAt:     formatOptionalTime(p.PaidAt),
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	p := entities.Payment{
		Reference:   it.Reference,
		UserID:      it.UserID,
		BookingCode: it.BookingCode,
		Type:        entities.PaymentType(it.Type),
		Method:      entities.PaymentMethod(it.Method),
		Status:      entities.PaymentStatus(it.Status),
		Amount:      it.Amount,
		Currency:    it.Currency,
		Breakdown: entities.Breakdown{
			ServiceAmount: it.Breakdown.ServiceAmount,
			AddOnsAmount:  it.Breakdown.AddOnsAmount,
			PlatformFee:   it.Breakdown.PlatformFee,
			Taxes:         it.Breakdown.Taxes,
			Discount:      it.Breakdown.Discount,
		},
		FailReason: it.FailReason,
		PaidAt:     parseOptionalTime(it.PaidAt),
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, it.CreatedAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return p
}
