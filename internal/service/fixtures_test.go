package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gymtrack/backend/internal/model"
)

// ── service 层测试共用夹具 ──

var (
	testTenant = uuid.NewString()
	testCaller = uuid.NewString()
	testLogger = zap.NewNop()
)

// fixtureDay 固定测试日期：2026-03-02（周一）
var fixtureDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func seedCourseType(s *memStore, durationMinutes, defaultMax int) *model.CourseType {
	ct := &model.CourseType{
		CourseTypeID:           uuid.NewString(),
		TenantID:               testTenant,
		Name:                   "动感单车",
		DurationMinutes:        durationMinutes,
		DefaultMaxParticipants: defaultMax,
		IsActive:               true,
	}
	ct.Version = 1
	s.courseTypes[ct.CourseTypeID] = ct
	return ct
}

func seedRoom(s *memStore, capacity int) *model.Room {
	room := &model.Room{
		RoomID:   uuid.NewString(),
		TenantID: testTenant,
		Name:     "一号教室",
		Capacity: capacity,
		IsActive: true,
	}
	room.Version = 1
	s.rooms[room.RoomID] = room
	return room
}

func seedCoach(s *memStore) *model.Coach {
	coach := &model.Coach{
		CoachID:  uuid.NewString(),
		TenantID: testTenant,
		Name:     "王教练",
		IsActive: true,
	}
	coach.Version = 1
	s.coaches[coach.CoachID] = coach
	return coach
}

func seedMember(s *memStore) *model.Member {
	m := &model.Member{
		MemberID:              uuid.NewString(),
		TenantID:              testTenant,
		Name:                  "测试会员",
		Status:                model.MemberStatusActive,
		HasActiveSubscription: true,
	}
	m.Version = 1
	s.members[m.MemberID] = m
	return m
}

func seedCourse(s *memStore, ct *model.CourseType, coach *model.Coach, room *model.Room, start, end string, max int) *model.Course {
	c := &model.Course{
		CourseID:        uuid.NewString(),
		TenantID:        testTenant,
		CourseTypeID:    ct.CourseTypeID,
		CoachID:         coach.CoachID,
		RoomID:          room.RoomID,
		Date:            fixtureDay,
		StartTime:       start,
		EndTime:         end,
		MaxParticipants: max,
		Status:          model.CourseStatusScheduled,
	}
	c.Version = 1
	s.courses[c.CourseID] = c
	return c
}

func seedBooking(s *memStore, course *model.Course, member *model.Member, status string) *model.Booking {
	b := &model.Booking{
		BookingID:   uuid.NewString(),
		TenantID:    testTenant,
		CourseID:    course.CourseID,
		MemberID:    member.MemberID,
		Status:      status,
		BookingDate: time.Now(),
		Version:     1,
	}
	s.bookings[b.BookingID] = b
	return b
}
