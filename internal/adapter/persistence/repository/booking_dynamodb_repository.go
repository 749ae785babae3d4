package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultBookingsTableName = "bookings"
	bookingsStatusIndex      = "status-index"
)

type statusChangeItem struct {
	From      string `dynamodbav:"from,omitempty"`
	To        string `dynamodbav:"to"`
	ActorID   string `dynamodbav:"actor_id"`
	ActorRole string `dynamodbav:"actor_role"`
	Reason    string `dynamodbav:"reason,omitempty"`
	At        string `dynamodbav:"at"`
}

type providerResponseItem struct {
	Message       string `dynamodbav:"message,omitempty"`
	AlternateTime string `dynamodbav:"alternate_time,omitempty"`
	RespondedAt   string `dynamodbav:"responded_at"`
}

type disputeResolutionItem struct {
	ResolvedBy   string  `dynamodbav:"resolved_by"`
	RefundAmount float64 `dynamodbav:"refund_amount"`
	Note         string  `dynamodbav:"note,omitempty"`
	ResolvedAt   string  `dynamodbav:"resolved_at"`
}

type disputeItem struct {
	DisputedBy  string                 `dynamodbav:"disputed_by"`
	Reason      string                 `dynamodbav:"reason"`
	Description string                 `dynamodbav:"description,omitempty"`
	Evidence    []string               `dynamodbav:"evidence,omitempty"`
	OpenedAt    string                 `dynamodbav:"opened_at"`
	Resolution  *disputeResolutionItem `dynamodbav:"resolution,omitempty"`
}

type cancellationItem struct {
	CancelledBy  string  `dynamodbav:"cancelled_by"`
	Reason       string  `dynamodbav:"reason,omitempty"`
	RefundAmount float64 `dynamodbav:"refund_amount"`
	Fee          float64 `dynamodbav:"fee"`
	CancelledAt  string  `dynamodbav:"cancelled_at"`
}

type bookingItem struct {
	Code       string `dynamodbav:"code"`
	ClientID   string `dynamodbav:"client_id"`
	ProviderID string `dynamodbav:"provider_id"`
	ServiceID  string `dynamodbav:"service_id"`

	Status  string             `dynamodbav:"status"`
	History []statusChangeItem `dynamodbav:"history"`

	ServicePrice float64 `dynamodbav:"service_price"`
	AddOnsPrice  float64 `dynamodbav:"add_ons_price"`
	PlatformFee  float64 `dynamodbav:"platform_fee"`
	Total        float64 `dynamodbav:"total"`
	Currency     string  `dynamodbav:"currency,omitempty"`

	ScheduledAt string `dynamodbav:"scheduled_at"`
	ClientNotes string `dynamodbav:"client_notes,omitempty"`

	ProviderResponse *providerResponseItem `dynamodbav:"provider_response,omitempty"`

	StartedAt       string   `dynamodbav:"started_at,omitempty"`
	CompletedAt     string   `dynamodbav:"completed_at,omitempty"`
	ActualDuration  int64    `dynamodbav:"actual_duration_minutes,omitempty"`
	WorkEvidence    []string `dynamodbav:"work_evidence,omitempty"`
	ProviderMessage string   `dynamodbav:"provider_message,omitempty"`

	ClientConfirmed    bool   `dynamodbav:"client_confirmed"`
	ConfirmedAt        string `dynamodbav:"confirmed_at,omitempty"`
	AutoConfirmAt      string `dynamodbav:"auto_confirm_at,omitempty"`
	ConfirmationMethod string `dynamodbav:"confirmation_method,omitempty"`

	Disputed     bool              `dynamodbav:"disputed"`
	Dispute      *disputeItem      `dynamodbav:"dispute,omitempty"`
	Cancellation *cancellationItem `dynamodbav:"cancellation,omitempty"`

	PaymentMethod    string `dynamodbav:"payment_method,omitempty"`
	PaymentStatus    string `dynamodbav:"payment_status,omitempty"`
	PaymentReference string `dynamodbav:"payment_reference,omitempty"`
	PaidAt           string `dynamodbav:"paid_at,omitempty"`

	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`

	Version int64 `dynamodbav:"version"`
}

// BookingDynamoRepository persists Booking aggregates in DynamoDB.
//
// Table requirements:
//   - PK: code (string)
//   - GSI: status-index (PK: status, SK: auto_confirm_at)
//
// Mutations are whole-aggregate conditional puts. Every write bumps the
// version attribute and is guarded by the version (plus the status, or the
// confirmation flag) the aggregate was read at, so ALL concurrent writers on
// one booking serialize, including the targeted payment-record update: the
// loser's condition fails and the repository reports it as a zero-value
// result instead of clobbering the winner.
//
// Earnings-moving transitions (complete, confirm) write the booking and the
// provider wallet in a single TransactWriteItems call, so the state change
// and the wallet movement land together or not at all.
type BookingDynamoRepository struct {
	ddb            *dynamodb.Client
	tableName      string
	providersTable string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb *dynamodb.Client) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb:            ddb,
		tableName:      getenvDefault("BOOKINGS_TABLE", defaultBookingsTableName),
		providersTable: getenvDefault("PROVIDERS_TABLE", defaultProvidersTableName),
	}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	b.Version = 1
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#code)"),
		ExpressionAttributeNames: map[string]string{
			"#code": "code",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Booking{}, interfaces.ErrBookingCodeExists
		}
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByCode(ctx context.Context, code string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: code},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) UpdateIfStatus(ctx context.Context, b entities.Booking, expected entities.BookingStatus) (entities.Booking, error) {
	put, next, err := r.statusGuardedPut(b, expected)
	if err != nil {
		return entities.Booking{}, err
	}
	return r.putBooking(ctx, next, put)
}

func (r *BookingDynamoRepository) CompleteAndCreditPending(ctx context.Context, b entities.Booking, expected entities.BookingStatus, amount float64) (entities.Booking, error) {
	put, next, err := r.statusGuardedPut(b, expected)
	if err != nil {
		return entities.Booking{}, err
	}
	return r.transactBookingAndWallet(ctx, next, put, creditPendingUpdate(r.providersTable, b.ProviderID, amount))
}

func (r *BookingDynamoRepository) ConfirmAndReleasePending(ctx context.Context, b entities.Booking, amount float64) (entities.Booking, error) {
	put, next, err := r.confirmGuardedPut(b)
	if err != nil {
		return entities.Booking{}, err
	}
	return r.transactBookingAndWallet(ctx, next, put, releasePendingUpdate(r.providersTable, b.ProviderID, amount))
}

func (r *BookingDynamoRepository) UpdatePaymentRecord(ctx context.Context, code string, rec entities.PaymentRecord) (entities.Booking, error) {
	out, err := r.ddb.UpdateItem(ctx, r.paymentRecordUpdateInput(code, rec))
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Booking{}, nil
	}
	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

// paymentRecordUpdateInput merges the payment sub-record with targeted SETs
// and bumps the version, so a racing whole-aggregate put that read the older
// version loses its condition instead of silently erasing these fields.
func (r *BookingDynamoRepository) paymentRecordUpdateInput(code string, rec entities.PaymentRecord) *dynamodb.UpdateItemInput {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	paidAt := ""
	if rec.PaidAt != nil {
		paidAt = rec.PaidAt.UTC().Format(time.RFC3339Nano)
	}

	return &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: code},
		},
		ConditionExpression: aws.String("attribute_exists(#code)"),
		UpdateExpression:    aws.String("SET #pm = :pm, #ps = :ps, #pr = :pr, #paid_at = :paid_at, #updated_at = :updated_at ADD #version :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pm":         &types.AttributeValueMemberS{Value: string(rec.Method)},
			":ps":         &types.AttributeValueMemberS{Value: string(rec.Status)},
			":pr":         &types.AttributeValueMemberS{Value: rec.Reference},
			":paid_at":    &types.AttributeValueMemberS{Value: paidAt},
			":updated_at": &types.AttributeValueMemberS{Value: now},
			":one":        &types.AttributeValueMemberN{Value: "1"},
		},
		ExpressionAttributeNames: map[string]string{
			"#code":       "code",
			"#pm":         "payment_method",
			"#ps":         "payment_status",
			"#pr":         "payment_reference",
			"#paid_at":    "paid_at",
			"#updated_at": "updated_at",
			"#version":    "version",
		},
		ReturnValues: types.ReturnValueAllNew,
	}
}

func (r *BookingDynamoRepository) ListAutoConfirmable(ctx context.Context, now time.Time, limit int) ([]entities.Booking, error) {
	// RFC3339Nano strings in UTC sort lexicographically in time order, so
	// the deadline comparison works as a range condition on the GSI sort
	// key.
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(bookingsStatusIndex),
		KeyConditionExpression: aws.String("#status = :completed AND #auto_confirm_at <= :now"),
		FilterExpression:       aws.String("#confirmed = :unconfirmed AND #disputed = :undisputed"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed":   &types.AttributeValueMemberS{Value: string(entities.BookingStatusCompleted)},
			":now":         &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
			":unconfirmed": &types.AttributeValueMemberBOOL{Value: false},
			":undisputed":  &types.AttributeValueMemberBOOL{Value: false},
		},
		ExpressionAttributeNames: map[string]string{
			"#status":          "status",
			"#auto_confirm_at": "auto_confirm_at",
			"#confirmed":       "client_confirmed",
			"#disputed":        "disputed",
		},
		Limit: aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Booking, 0, len(out.Items))
	for _, raw := range out.Items {
		var it bookingItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromBookingItem(it))
	}
	return items, nil
}

// statusGuardedPut builds a whole-aggregate put for a lifecycle transition,
// conditioned on the status and the version the aggregate was read at. The
// returned booking carries the bumped version.
func (r *BookingDynamoRepository) statusGuardedPut(b entities.Booking, expected entities.BookingStatus) (*types.Put, entities.Booking, error) {
	return r.guardedPut(b,
		"attribute_exists(#code) AND #status = :expected AND #version = :version",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
		map[string]string{
			"#code":   "code",
			"#status": "status",
		},
	)
}

// confirmGuardedPut builds the exactly-once confirmation put: only one
// writer can flip client_confirmed, and a dispute that landed first blocks
// it.
func (r *BookingDynamoRepository) confirmGuardedPut(b entities.Booking) (*types.Put, entities.Booking, error) {
	return r.guardedPut(b,
		"attribute_exists(#code) AND #status = :completed AND #confirmed = :unconfirmed AND #disputed = :undisputed AND #version = :version",
		map[string]types.AttributeValue{
			":completed":   &types.AttributeValueMemberS{Value: string(entities.BookingStatusCompleted)},
			":unconfirmed": &types.AttributeValueMemberBOOL{Value: false},
			":undisputed":  &types.AttributeValueMemberBOOL{Value: false},
		},
		map[string]string{
			"#code":      "code",
			"#status":    "status",
			"#confirmed": "client_confirmed",
			"#disputed":  "disputed",
		},
	)
}

func (r *BookingDynamoRepository) guardedPut(
	b entities.Booking,
	condition string,
	values map[string]types.AttributeValue,
	names map[string]string,
) (*types.Put, entities.Booking, error) {
	next := b
	next.Version = b.Version + 1
	av, err := attributevalue.MarshalMap(toBookingItem(next))
	if err != nil {
		return nil, entities.Booking{}, err
	}

	values[":version"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(b.Version, 10)}
	names["#version"] = "version"

	return &types.Put{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
	}, next, nil
}

func (r *BookingDynamoRepository) putBooking(ctx context.Context, next entities.Booking, put *types.Put) (entities.Booking, error) {
	_, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
		ExpressionAttributeNames:  put.ExpressionAttributeNames,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	return next, nil
}

// transactBookingAndWallet commits the booking put and the wallet movement
// atomically. A cancelled transaction (lost write race, failed wallet guard)
// is a zero-value result; any other error leaves the stored booking
// untouched, so the caller can retry the whole transition.
func (r *BookingDynamoRepository) transactBookingAndWallet(ctx context.Context, next entities.Booking, put *types.Put, wallet *types.Update) (entities.Booking, error) {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{Update: wallet},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	return next, nil
}

// creditPendingUpdate applies entities.AddPendingEarnings to the provider
// wallet: pending += amount, total earnings += amount.
func creditPendingUpdate(table, providerID string, amount float64) *types.Update {
	return &types.Update{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: providerID},
		},
		UpdateExpression:    aws.String("ADD #pending :amount, #total :amount"),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount": &types.AttributeValueMemberN{Value: floatToString(amount)},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#pending": "pending_balance",
			"#total":   "total_earnings",
		},
	}
}

// releasePendingUpdate applies entities.ConfirmEarnings: pending -= amount,
// balance += amount, guarded by pending >= amount.
func releasePendingUpdate(table, providerID string, amount float64) *types.Update {
	return &types.Update{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: providerID},
		},
		UpdateExpression:    aws.String("ADD #pending :negative, #balance :amount"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #pending >= :amount"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount":   &types.AttributeValueMemberN{Value: floatToString(amount)},
			":negative": &types.AttributeValueMemberN{Value: floatToString(-amount)},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#pending": "pending_balance",
			"#balance": "balance",
		},
	}
}

func toBookingItem(b entities.Booking) bookingItem {
	it := bookingItem{
		Code:       b.Code,
		ClientID:   b.ClientID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,

		Status: string(b.Status),

		ServicePrice: b.Pricing.ServicePrice,
		AddOnsPrice:  b.Pricing.AddOnsPrice,
		PlatformFee:  b.Pricing.PlatformFee,
		Total:        b.Pricing.Total,
		Currency:     b.Pricing.Currency,

		ScheduledAt: b.ScheduledAt.UTC().Format(time.RFC3339Nano),
		ClientNotes: b.ClientNotes,

		ActualDuration:  b.Execution.ActualDuration,
		WorkEvidence:    b.Execution.WorkEvidence,
		ProviderMessage: b.Execution.ProviderMessage,

		ClientConfirmed:    b.Confirmation.ClientConfirmed,
		ConfirmationMethod: string(b.Confirmation.Method),

		Disputed: b.Dispute != nil,

		PaymentMethod:    string(b.Payment.Method),
		PaymentStatus:    string(b.Payment.Status),
		PaymentReference: b.Payment.Reference,

		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339Nano),

		Version: b.Version,
	}

	it.History = make([]statusChangeItem, 0, len(b.History))
	for _, h := range b.History {
		it.History = append(it.History, statusChangeItem{
			From:      string(h.From),
			To:        string(h.To),
			ActorID:   h.ActorID,
			ActorRole: string(h.ActorRole),
			Reason:    h.Reason,
			At:        h.At.UTC().Format(time.RFC3339Nano),
		})
	}

	if b.ProviderResponse != nil {
		it.ProviderResponse = &providerResponseItem{
			Message:       b.ProviderResponse.Message,
			AlternateTime: formatOptionalTime(b.ProviderResponse.AlternateTime),
			RespondedAt:   b.ProviderResponse.RespondedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	it.StartedAt = formatOptionalTime(b.Execution.StartedAt)
	it.CompletedAt = formatOptionalTime(b.Execution.CompletedAt)
	it.ConfirmedAt = formatOptionalTime(b.Confirmation.ConfirmedAt)
	it.AutoConfirmAt = formatOptionalTime(b.Confirmation.AutoConfirmAt)
	it.PaidAt = formatOptionalTime(b.Payment.PaidAt)

	if b.Dispute != nil {
		d := &disputeItem{
			DisputedBy:  b.Dispute.DisputedBy,
			Reason:      b.Dispute.Reason,
			Description: b.Dispute.Description,
			Evidence:    b.Dispute.Evidence,
			OpenedAt:    b.Dispute.OpenedAt.UTC().Format(time.RFC3339Nano),
		}
		if b.Dispute.Resolution != nil {
			d.Resolution = &disputeResolutionItem{
				ResolvedBy:   b.Dispute.Resolution.ResolvedBy,
				RefundAmount: b.Dispute.Resolution.RefundAmount,
				Note:         b.Dispute.Resolution.Note,
				ResolvedAt:   b.Dispute.Resolution.ResolvedAt.UTC().Format(time.RFC3339Nano),
			}
		}
		it.Dispute = d
	}
	if b.Cancellation != nil {
		it.Cancellation = &cancellationItem{
			CancelledBy:  b.Cancellation.CancelledBy,
			Reason:       b.Cancellation.Reason,
			RefundAmount: b.Cancellation.RefundAmount,
			Fee:          b.Cancellation.Fee,
			CancelledAt:  b.Cancellation.CancelledAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return it
}

func fromBookingItem(it bookingItem) entities.Booking {
	b := entities.Booking{
		Code:       it.Code,
		ClientID:   it.ClientID,
		ProviderID: it.ProviderID,
		ServiceID:  it.ServiceID,

		Status: entities.BookingStatus(it.Status),

		Pricing: entities.PricingSnapshot{
			ServicePrice: it.ServicePrice,
			AddOnsPrice:  it.AddOnsPrice,
			PlatformFee:  it.PlatformFee,
			Total:        it.Total,
			Currency:     it.Currency,
		},

		ClientNotes: it.ClientNotes,

		Execution: entities.ExecutionRecord{
			ActualDuration:  it.ActualDuration,
			WorkEvidence:    it.WorkEvidence,
			ProviderMessage: it.ProviderMessage,
		},
		Confirmation: entities.ConfirmationRecord{
			ClientConfirmed: it.ClientConfirmed,
			Method:          entities.ConfirmationMethod(it.ConfirmationMethod),
		},
		Payment: entities.PaymentRecord{
			Method:    entities.PaymentMethod(it.PaymentMethod),
			Status:    entities.PaymentStatus(it.PaymentStatus),
			Reference: it.PaymentReference,
		},

		Version: it.Version,
	}

	b.ScheduledAt, _ = time.Parse(time.RFC3339Nano, it.ScheduledAt)
	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, it.CreatedAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339Nano, it.UpdatedAt)

	b.History = make([]entities.StatusChange, 0, len(it.History))
	for _, h := range it.History {
		at, _ := time.Parse(time.RFC3339Nano, h.At)
		b.History = append(b.History, entities.StatusChange{
			From:      entities.BookingStatus(h.From),
			To:        entities.BookingStatus(h.To),
			ActorID:   h.ActorID,
			ActorRole: entities.Role(h.ActorRole),
			Reason:    h.Reason,
			At:        at,
		})
	}

	if it.ProviderResponse != nil {
		respondedAt, _ := time.Parse(time.RFC3339Nano, it.ProviderResponse.RespondedAt)
		b.ProviderResponse = &entities.ProviderResponse{
			Message:       it.ProviderResponse.Message,
			AlternateTime: parseOptionalTime(it.ProviderResponse.AlternateTime),
			RespondedAt:   respondedAt,
		}
	}
	b.Execution.StartedAt = parseOptionalTime(it.StartedAt)
	b.Execution.CompletedAt = parseOptionalTime(it.CompletedAt)
	b.Confirmation.ConfirmedAt = parseOptionalTime(it.ConfirmedAt)
	b.Confirmation.AutoConfirmAt = parseOptionalTime(it.AutoConfirmAt)
	b.Payment.PaidAt = parseOptionalTime(it.PaidAt)

	if it.Dispute != nil {
		openedAt, _ := time.Parse(time.RFC3339Nano, it.Dispute.OpenedAt)
		d := &entities.DisputeRecord{
			DisputedBy:  it.Dispute.DisputedBy,
			Reason:      it.Dispute.Reason,
			Description: it.Dispute.Description,
			Evidence:    it.Dispute.Evidence,
			OpenedAt:    openedAt,
		}
		if it.Dispute.Resolution != nil {
			resolvedAt, _ := time.Parse(time.RFC3339Nano, it.Dispute.Resolution.ResolvedAt)
			d.Resolution = &entities.DisputeResolution{
				ResolvedBy:   it.Dispute.Resolution.ResolvedBy,
				RefundAmount: it.Dispute.Resolution.RefundAmount,
				Note:         it.Dispute.Resolution.Note,
				ResolvedAt:   resolvedAt,
			}
		}
		b.Dispute = d
	}
	if it.Cancellation != nil {
		cancelledAt, _ := time.Parse(time.RFC3339Nano, it.Cancellation.CancelledAt)
		b.Cancellation = &entities.CancellationRecord{
			CancelledBy:  it.Cancellation.CancelledBy,
			Reason:       it.Cancellation.Reason,
			RefundAmount: it.Cancellation.RefundAmount,
			Fee:          it.Cancellation.Fee,
			CancelledAt:  cancelledAt,
		}
	}
	return b
}
