package server

// Conversions between wire and domain types.

import (
	"time"

	"storyline/internal/domain"
)

func mkTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

func toStoryData(s domain.Story) StoryData {
	return StoryData{
		StoryID:   s.ID.String(),
		Name:      s.Name,
		CreatedAt: mkTimestamp(s.CreatedAt),
		UpdatedAt: mkTimestamp(s.UpdatedAt),
	}
}

func toTaskData(t domain.Task) TaskData {
	return TaskData{
		TaskID:    t.ID.String(),
		StoryID:   t.StoryID.String(),
		Name:      t.Name,
		Status:    t.Status.String(),
		CreatedAt: mkTimestamp(t.CreatedAt),
		UpdatedAt: mkTimestamp(t.UpdatedAt),
	}
}

func toStoryList(stories []domain.Story) []StoryData {
	out := make([]StoryData, 0, len(stories))
	for _, s := range stories {
		out = append(out, toStoryData(s))
	}
	return out
}

func toTaskList(tasks []domain.Task) []TaskData {
	out := make([]TaskData, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskData(t))
	}
	return out
}

// statusFromWire maps an inbound status token to the domain enum.
// Unrecognized values mean incomplete, mirroring how unknown stored
// values are read.
func statusFromWire(raw string) domain.Status {
	return domain.ParseStatus(raw)
}
