package models

import "time"

// Account holds sign-in credentials for a user
type Account struct {
	Email        string    `dynamodbav:"email" json:"email"` // ✅ Partition Key
	UserID       string    `dynamodbav:"userId" json:"userId"`
	PasswordHash string    `dynamodbav:"passwordHash" json:"passwordHash"`
	CreatedAt    time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// AccountsTable is the DynamoDB table name for accounts
const AccountsTable = "Accounts"
