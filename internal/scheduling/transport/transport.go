package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateScheduleRequest places a fully approved seminar into a room and
// time window. StartTime must fall on one of the lecturers' common dates.
type CreateScheduleRequest struct {
	SeminarID       string    `json:"seminarId" binding:"required,uuid"`
	Room            string    `json:"room" binding:"required,min=1,max=100"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	DurationMinutes *int      `json:"durationMinutes,omitempty" binding:"omitempty,gte=15,lte=480"`
	Latitude        float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// RescheduleRequest moves an existing schedule.
type RescheduleRequest struct {
	Room            *string    `json:"room,omitempty" binding:"omitempty,min=1,max=100"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty" binding:"omitempty,gte=15,lte=480"`
	Latitude        *float64   `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
}

// ScheduleResponse is the API representation of a schedule.
type ScheduleResponse struct {
	ID        uuid.UUID `json:"id"`
	SeminarID uuid.UUID `json:"seminarId"`
	Room      string    `json:"room"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	QRToken   uuid.UUID `json:"qrToken"`
	QRFileKey *string   `json:"qrFileKey,omitempty"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
