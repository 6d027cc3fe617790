package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jagman11/match--royale/models"
	"github.com/jagman11/match--royale/utils"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	maxBatchGetSize     = 100
	maxBatchGetAttempts = 5
)

// DynamoService implements ProfileStore, MessageStore and AccountStore on DynamoDB
type DynamoService struct {
	Client *dynamodb.Client
	Log    *zap.SugaredLogger
}

// LoadAWSConfig loads the shared AWS configuration for the given region
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// InitializeDynamoDBClient initializes the DynamoDB client, optionally against a local endpoint
func InitializeDynamoDBClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// GetProfile retrieves a user profile by ID
func (ds *DynamoService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(models.UserProfilesTable),
		Key:            profileKey(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", models.UserProfilesTable, err)
	}
	if output.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(output.Item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetProfiles resolves profiles with BatchGetItem, skipping ids that have no item
func (ds *DynamoService) GetProfiles(ctx context.Context, userIDs []string) ([]models.UserProfile, error) {
	ids := lo.Uniq(userIDs)
	found := make(map[string]models.UserProfile, len(ids))

	for _, chunk := range lo.Chunk(ids, maxBatchGetSize) {
		keys := lo.Map(chunk, func(id string, _ int) map[string]types.AttributeValue {
			return profileKey(id)
		})
		request := map[string]types.KeysAndAttributes{
			models.UserProfilesTable: {Keys: keys, ConsistentRead: aws.Bool(true)},
		}

		for attempt := 0; len(request) > 0; attempt++ {
			if attempt == maxBatchGetAttempts {
				return nil, fmt.Errorf("batch get on table '%s' left unprocessed keys after %d attempts", models.UserProfilesTable, attempt)
			}
			output, err := ds.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get from table '%s': %w", models.UserProfilesTable, err)
			}

			var profiles []models.UserProfile
			if err := attributevalue.UnmarshalListOfMaps(output.Responses[models.UserProfilesTable], &profiles); err != nil {
				return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
			}
			for _, p := range profiles {
				found[p.UserID] = p
			}
			request = output.UnprocessedKeys
		}
	}

	result := make([]models.UserProfile, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// PutProfile upserts the editable attributes of a profile
func (ds *DynamoService) PutProfile(ctx context.Context, profile models.UserProfile) error {
	fields := map[string]string{
		"name":            profile.Name,
		"bio":             profile.Bio,
		"major":           profile.Major,
		"gender":          string(profile.Gender),
		"image":           profile.Image,
		"backgroundImage": profile.BackgroundImage,
	}

	updateExpression, names, values := utils.BuildSetExpression(fields)
	_, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(models.UserProfilesTable),
		Key:                       profileKey(profile.UserID),
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		ds.Log.Errorf("❌ Failed to save profile %s: %v", profile.UserID, err)
		return fmt.Errorf("failed to update item in table '%s': %w", models.UserProfilesTable, err)
	}
	ds.Log.Debugf("✅ Profile %s saved", profile.UserID)
	return nil
}

// ScanProfiles reads every profile in the table
func (ds *DynamoService) ScanProfiles(ctx context.Context) ([]models.UserProfile, error) {
	paginator := dynamodb.NewScanPaginator(ds.Client, &dynamodb.ScanInput{
		TableName: aws.String(models.UserProfilesTable),
	})

	var profiles []models.UserProfile
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", models.UserProfilesTable, err)
		}
		var batch []models.UserProfile
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan result: %w", err)
		}
		profiles = append(profiles, batch...)
	}
	ds.Log.Debugf("🔍 Scanned %d profiles", len(profiles))
	return profiles, nil
}

// AddMatchedUser adds matchedID to the string set of userID; ADD makes it idempotent
func (ds *DynamoService) AddMatchedUser(ctx context.Context, userID, matchedID string) error {
	_, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(models.UserProfilesTable),
		Key:                 profileKey(userID),
		UpdateExpression:    aws.String("ADD #matchedUsers :ids"),
		ConditionExpression: aws.String("attribute_exists(#userId)"),
		ExpressionAttributeNames: map[string]string{
			"#matchedUsers": "matchedUsers",
			"#userId":       "userId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ids": &types.AttributeValueMemberSS{Value: []string{matchedID}},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
		}
		return fmt.Errorf("failed to add %s to matchedUsers of %s: %w", matchedID, userID, err)
	}
	return nil
}

// AppendMessage stores a new message in the Messages table
func (ds *DynamoService) AppendMessage(ctx context.Context, message models.Message) error {
	item, err := attributevalue.MarshalMap(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(models.MessagesTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#sortKey)"),
		ExpressionAttributeNames: map[string]string{
			"#sortKey": "sortKey",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", models.MessagesTable, err)
	}
	return nil
}

// ListMessages queries the full history of a channel, oldest first
func (ds *DynamoService) ListMessages(ctx context.Context, channelID string) ([]models.Message, error) {
	paginator := dynamodb.NewQueryPaginator(ds.Client, &dynamodb.QueryInput{
		TableName:              aws.String(models.MessagesTable),
		KeyConditionExpression: aws.String("#channelId = :channelId"),
		ExpressionAttributeNames: map[string]string{
			"#channelId": "channelId", // Prevents DynamoDB reserved word conflicts
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":channelId": &types.AttributeValueMemberS{Value: channelID},
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	})

	messages := []models.Message{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", models.MessagesTable, err)
		}
		var batch []models.Message
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse messages: %w", err)
		}
		messages = append(messages, batch...)
	}
	return messages, nil
}

// CreateAccount inserts an account unless the email is already registered
func (ds *DynamoService) CreateAccount(ctx context.Context, account models.Account) error {
	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(models.AccountsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return fmt.Errorf("%s: %w", account.Email, ErrEmailTaken)
		}
		return fmt.Errorf("failed to put item in table '%s': %w", models.AccountsTable, err)
	}
	return nil
}

// GetAccount retrieves an account by email
func (ds *DynamoService) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(models.AccountsTable),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", models.AccountsTable, err)
	}
	if output.Item == nil {
		return nil, fmt.Errorf("%s: %w", email, ErrAccountNotFound)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(output.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}
