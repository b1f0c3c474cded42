package ailisting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"kalastra-backend/internal/common/errors"
)

const (
	audioFieldPrefix = "audio_question_"
	imageFieldPrefix = "image_"
)

// PartitionParts classifies upload parts by field name into the answer set
// and the image set. Field name prefix plus trailing integer is the
// classification and ordering key. Fields with neither prefix are ignored.
func PartitionParts(parts []UploadPart, cfg *Config) (*Submission, error) {
	sub := &Submission{}
	seenAudio := make(map[int]bool)
	seenImage := make(map[int]bool)

	for _, part := range parts {
		switch {
		case strings.HasPrefix(part.Field, audioFieldPrefix):
			idx, err := parseIndex(part.Field, audioFieldPrefix)
			if err != nil {
				return nil, errors.NewInvalidListingInputError(err.Error())
			}
			if idx >= cfg.QuestionCount {
				return nil, errors.NewInvalidListingInputError(
					fmt.Sprintf("question index %d out of range (max %d)", idx, cfg.QuestionCount-1))
			}
			if seenAudio[idx] || len(part.Data) == 0 {
				continue
			}
			seenAudio[idx] = true
			sub.Answers = append(sub.Answers, AnswerClip{Index: idx, Data: part.Data})

		case strings.HasPrefix(part.Field, imageFieldPrefix):
			idx, err := parseIndex(part.Field, imageFieldPrefix)
			if err != nil {
				return nil, errors.NewInvalidListingInputError(err.Error())
			}
			if idx >= cfg.MaxImages {
				return nil, errors.NewInvalidListingInputError(
					fmt.Sprintf("image index %d out of range (max %d)", idx, cfg.MaxImages-1))
			}
			if seenImage[idx] || len(part.Data) == 0 {
				continue
			}
			seenImage[idx] = true
			sub.Images = append(sub.Images, ImagePart{Index: idx, Filename: part.Filename, Data: part.Data})
		}
	}

	if len(sub.Answers) == 0 {
		return nil, errors.NewNoAudioProvidedError()
	}

	// Ascending question index is the assembly order downstream.
	sort.Slice(sub.Answers, func(i, j int) bool {
		return sub.Answers[i].Index < sub.Answers[j].Index
	})
	sort.Slice(sub.Images, func(i, j int) bool {
		return sub.Images[i].Index < sub.Images[j].Index
	})

	return sub, nil
}

func parseIndex(field, prefix string) (int, error) {
	suffix := strings.TrimPrefix(field, prefix)
	idx, err := strconv.Atoi(suffix)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("malformed field name %q", field)
	}
	return idx, nil
}
