package app_test

import (
	"strconv"

	"kumarket/marketplace-api/internal/service"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func registerInput(email string) service.RegisterInput {
	return service.RegisterInput{
		Email:     email,
		Password:  "pw123456",
		Name:      "Other",
		StudentID: "2019000000",
	}
}
