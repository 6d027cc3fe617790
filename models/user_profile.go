package models

// Gender is the self-described gender shown on a profile card
type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non-Binary"
)

// Valid reports whether g is one of the supported genders
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	}
	return false
}

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID          string   `dynamodbav:"userId" json:"id"`                                                          // ✅ Partition Key, assigned at sign-up
	Name            string   `dynamodbav:"name" json:"name" validate:"max=80"`                                        // Display name
	Bio             string   `dynamodbav:"bio" json:"bio" validate:"max=500"`                                         // Short biography
	Major           string   `dynamodbav:"major" json:"major" validate:"max=80"`                                      // Field of study
	Gender          Gender   `dynamodbav:"gender" json:"gender" validate:"omitempty,oneof=Male Female Non-Binary"`    // Male, Female, Non-Binary
	Image           string   `dynamodbav:"image" json:"image" validate:"omitempty,url"`                               // Profile image URL or empty
	BackgroundImage string   `dynamodbav:"backgroundImage" json:"backgroundImage" validate:"omitempty,url"`           // Background image URL or empty
	MatchedUsers    []string `dynamodbav:"matchedUsers,stringset,omitempty" json:"matchedUsers" validate:"-"`         // Set of matched user ids
}

// HasMatch reports whether userID is already in the matched set
func (p UserProfile) HasMatch(userID string) bool {
	for _, id := range p.MatchedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "Users"
