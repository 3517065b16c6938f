package catalog

import "errors"

// Sentinel errors returned by the catalog service.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this product")
	ErrReviewForbidden = errors.New("you can only delete your own reviews")
)
