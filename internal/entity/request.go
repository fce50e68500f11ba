package entity

import (
	"context"
	"fmt"
)

type UpsertProfileRequest struct {
	Username   string   `json:"username" form:"username"`
	FirstName  string   `json:"first_name" form:"first_name"`
	LastName   string   `json:"last_name" form:"last_name"`
	Name       string   `json:"name" form:"name"`
	Gender     string   `json:"gender" form:"gender"`
	Age        int      `json:"age" form:"age"`
	City       string   `json:"city" form:"city"`
	University string   `json:"university" form:"university"`
	Interests  []string `json:"interests"`
	Goals      []string `json:"goals"`
	Bio        string   `json:"bio" form:"bio"`
}

func (r *UpsertProfileRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["name"] = append(problems["name"], "Name is required")
	}

	if !Gender(r.Gender).Valid() {
		problems["gender"] = append(problems["gender"], "Gender must be one of male, female, other")
	}

	if r.Age < MinAge || r.Age > MaxAge {
		problems["age"] = append(problems["age"], fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge))
	}

	if r.City == "" {
		problems["city"] = append(problems["city"], "City is required")
	}

	if r.University == "" {
		problems["university"] = append(problems["university"], "University is required")
	}

	if len([]rune(r.Bio)) > MaxBioLength {
		problems["bio"] = append(problems["bio"], fmt.Sprintf("Bio must be %d characters or less", MaxBioLength))
	}

	return problems
}

type RespondToLikeRequest struct {
	TargetUserID int64  `json:"target_user_id"`
	Action       string `json:"action"`
}

func (r *RespondToLikeRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.TargetUserID <= 0 {
		problems["target_user_id"] = append(problems["target_user_id"], "Target user id is required")
	}

	if !Decision(r.Action).Valid() {
		problems["action"] = append(problems["action"], "Action must be 'accept' or 'decline'")
	}

	return problems
}
