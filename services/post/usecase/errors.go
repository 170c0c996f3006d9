package usecase

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyPost        = errors.New("post must contain content, media, or reference an original post")
	ErrContentTooLong   = errors.New("post content exceeds the 3000 character limit")
	ErrEmptyComment     = errors.New("comment cannot be empty")
	ErrAlreadyReposted  = errors.New("you have already reposted this post")
	ErrDuplicateThought = errors.New("you have already reposted this post with the same thought")
)
