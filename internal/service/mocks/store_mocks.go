package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"grading_service/internal/domain"
)

type MockSubmissionStore struct {
	ctrl     *gomock.Controller
	recorder *MockSubmissionStoreMockRecorder
}

type MockSubmissionStoreMockRecorder struct {
	mock *MockSubmissionStore
}

func NewMockSubmissionStore(ctrl *gomock.Controller) *MockSubmissionStore {
	mock := &MockSubmissionStore{ctrl: ctrl}
	mock.recorder = &MockSubmissionStoreMockRecorder{mock}
	return mock
}

func (m *MockSubmissionStore) EXPECT() *MockSubmissionStoreMockRecorder {
	return m.recorder
}

func (m *MockSubmissionStore) Create(ctx context.Context, submission *domain.Submission) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, submission)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSubmissionStoreMockRecorder) Create(ctx, submission interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockSubmissionStore)(nil).Create), ctx, submission)
}

func (m *MockSubmissionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Submission)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) GetByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockSubmissionStore)(nil).GetByID), ctx, id)
}

func (m *MockSubmissionStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Claim", ctx, id)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) Claim(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Claim", reflect.TypeOf((*MockSubmissionStore)(nil).Claim), ctx, id)
}

func (m *MockSubmissionStore) RecordOutcome(ctx context.Context, id uuid.UUID, state domain.SubmissionState, previousGraderType, nextGraderType domain.GraderType) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordOutcome", ctx, id, state, previousGraderType, nextGraderType)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) RecordOutcome(ctx, id, state, previousGraderType, nextGraderType interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordOutcome", reflect.TypeOf((*MockSubmissionStore)(nil).RecordOutcome), ctx, id, state, previousGraderType, nextGraderType)
}

func (m *MockSubmissionStore) Rollback(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rollback", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSubmissionStoreMockRecorder) Rollback(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rollback", reflect.TypeOf((*MockSubmissionStore)(nil).Rollback), ctx, id)
}

func (m *MockSubmissionStore) MarkPosted(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkPosted", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSubmissionStoreMockRecorder) MarkPosted(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkPosted", reflect.TypeOf((*MockSubmissionStore)(nil).MarkPosted), ctx, id)
}

func (m *MockSubmissionStore) PeerCandidates(ctx context.Context, location string, graderType domain.GraderType, graderID string, limit int) ([]domain.PeerCandidate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PeerCandidates", ctx, location, graderType, graderID, limit)
	ret0, _ := ret[0].([]domain.PeerCandidate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) PeerCandidates(ctx, location, graderType, graderID, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PeerCandidates", reflect.TypeOf((*MockSubmissionStore)(nil).PeerCandidates), ctx, location, graderType, graderID, limit)
}

func (m *MockSubmissionStore) FirstEligible(ctx context.Context, location string, graderType domain.GraderType, graderID string) (*domain.Submission, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FirstEligible", ctx, location, graderType, graderID)
	ret0, _ := ret[0].(*domain.Submission)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) FirstEligible(ctx, location, graderType, graderID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FirstEligible", reflect.TypeOf((*MockSubmissionStore)(nil).FirstEligible), ctx, location, graderType, graderID)
}

func (m *MockSubmissionStore) DistinctLocations(ctx context.Context, courseID string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DistinctLocations", ctx, courseID)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) DistinctLocations(ctx, courseID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DistinctLocations", reflect.TypeOf((*MockSubmissionStore)(nil).DistinctLocations), ctx, courseID)
}

func (m *MockSubmissionStore) InstructorActivity(ctx context.Context, location string) (int, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InstructorActivity", ctx, location)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockSubmissionStoreMockRecorder) InstructorActivity(ctx, location interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InstructorActivity", reflect.TypeOf((*MockSubmissionStore)(nil).InstructorActivity), ctx, location)
}

func (m *MockSubmissionStore) FinalizedUnposted(ctx context.Context, limit int) ([]*domain.Submission, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FinalizedUnposted", ctx, limit)
	ret0, _ := ret[0].([]*domain.Submission)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSubmissionStoreMockRecorder) FinalizedUnposted(ctx, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FinalizedUnposted", reflect.TypeOf((*MockSubmissionStore)(nil).FinalizedUnposted), ctx, limit)
}

type MockGradeStore struct {
	ctrl     *gomock.Controller
	recorder *MockGradeStoreMockRecorder
}

type MockGradeStoreMockRecorder struct {
	mock *MockGradeStore
}

func NewMockGradeStore(ctrl *gomock.Controller) *MockGradeStore {
	mock := &MockGradeStore{ctrl: ctrl}
	mock.recorder = &MockGradeStoreMockRecorder{mock}
	return mock
}

func (m *MockGradeStore) EXPECT() *MockGradeStoreMockRecorder {
	return m.recorder
}

func (m *MockGradeStore) Create(ctx context.Context, grade *domain.Grade) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, grade)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockGradeStoreMockRecorder) Create(ctx, grade interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockGradeStore)(nil).Create), ctx, grade)
}

func (m *MockGradeStore) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*domain.Grade, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBySubmission", ctx, submissionID)
	ret0, _ := ret[0].([]*domain.Grade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGradeStoreMockRecorder) ListBySubmission(ctx, submissionID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBySubmission", reflect.TypeOf((*MockGradeStore)(nil).ListBySubmission), ctx, submissionID)
}

func (m *MockGradeStore) SuccessfulPeerGraderIDs(ctx context.Context, submissionID uuid.UUID) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SuccessfulPeerGraderIDs", ctx, submissionID)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGradeStoreMockRecorder) SuccessfulPeerGraderIDs(ctx, submissionID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SuccessfulPeerGraderIDs", reflect.TypeOf((*MockGradeStore)(nil).SuccessfulPeerGraderIDs), ctx, submissionID)
}

func (m *MockGradeStore) CountSuccessfulPeer(ctx context.Context, submissionID uuid.UUID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountSuccessfulPeer", ctx, submissionID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGradeStoreMockRecorder) CountSuccessfulPeer(ctx, submissionID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountSuccessfulPeer", reflect.TypeOf((*MockGradeStore)(nil).CountSuccessfulPeer), ctx, submissionID)
}

func (m *MockGradeStore) HasSuccessfulGrade(ctx context.Context, submissionID uuid.UUID, graderID string, graderType domain.GraderType) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasSuccessfulGrade", ctx, submissionID, graderID, graderType)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGradeStoreMockRecorder) HasSuccessfulGrade(ctx, submissionID, graderID, graderType interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasSuccessfulGrade", reflect.TypeOf((*MockGradeStore)(nil).HasSuccessfulGrade), ctx, submissionID, graderID, graderType)
}

func (m *MockGradeStore) LatestSuccessful(ctx context.Context, submissionID uuid.UUID, graderTypes ...domain.GraderType) (*domain.Grade, error) {
	m.ctrl.T.Helper()
	varargs := []interface{}{ctx, submissionID}
	for _, a := range graderTypes {
		varargs = append(varargs, a)
	}
	ret := m.ctrl.Call(m, "LatestSuccessful", varargs...)
	ret0, _ := ret[0].(*domain.Grade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGradeStoreMockRecorder) LatestSuccessful(ctx, submissionID interface{}, graderTypes ...interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	varargs := append([]interface{}{ctx, submissionID}, graderTypes...)
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LatestSuccessful", reflect.TypeOf((*MockGradeStore)(nil).LatestSuccessful), varargs...)
}
