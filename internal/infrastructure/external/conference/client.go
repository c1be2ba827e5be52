package conference

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/anujdevsingh/gram-panchayat/pkg/config"
)

// Client wraps the video-conferencing operations a Gram Sabha needs
type Client interface {
	CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error)
	DeleteRoom(ctx context.Context, roomName string) error
	JoinToken(userID, roomName, participantName string, options *TokenOptions) (string, error)
	ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error)
	RemoveParticipant(ctx context.Context, roomName, identity string) error
}

// CreateRoomOptions holds options for creating a room
type CreateRoomOptions struct {
	MaxParticipants  int32
	EmptyTimeout     int32 // seconds, auto-delete if no one joins
	DepartureTimeout int32 // seconds, auto-delete after last participant leaves
	Metadata         string
}

// TokenOptions holds options for generating a join token
type TokenOptions struct {
	ValidFor       time.Duration
	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
	RoomAdmin      bool
}

// RoomInfo holds provisioned room information
type RoomInfo struct {
	Name            string
	SID             string
	CreationTime    time.Time
	MaxParticipants int32
	NumParticipants int32
	Metadata        string
}

// ParticipantInfo holds one connected participant
type ParticipantInfo struct {
	SID      string
	Identity string
	Name     string
	Metadata string
	JoinedAt time.Time
}

type realClient struct {
	roomClient *lksdk.RoomServiceClient
	apiKey     string
	apiSecret  string
	url        string
}

// NewClient creates a conferencing client. When no host is configured the
// mock client is returned, so local development works without a media server.
func NewClient(cfg *config.ConferenceConfig) Client {
	if cfg == nil || cfg.Host == "" {
		return &mockClient{}
	}
	return &realClient{
		roomClient: lksdk.NewRoomServiceClient(cfg.Host, cfg.APIKey, cfg.APISecret),
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		url:        cfg.Host,
	}
}

// CreateRoom provisions a conference room for a meeting
func (c *realClient) CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = &CreateRoomOptions{
			MaxParticipants:  200,
			EmptyTimeout:     600,
			DepartureTimeout: 60,
		}
	}

	room, err := c.roomClient.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             name,
		MaxParticipants:  uint32(options.MaxParticipants),
		EmptyTimeout:     uint32(options.EmptyTimeout),
		DepartureTimeout: uint32(options.DepartureTimeout),
		Metadata:         options.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &RoomInfo{
		Name:            room.Name,
		SID:             room.Sid,
		CreationTime:    time.Unix(room.CreationTime, 0),
		MaxParticipants: int32(room.MaxParticipants),
		NumParticipants: int32(room.NumParticipants),
		Metadata:        room.Metadata,
	}, nil
}

// DeleteRoom tears down a conference room
func (c *realClient) DeleteRoom(ctx context.Context, roomName string) error {
	_, err := c.roomClient.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: roomName,
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// RemoveParticipant drops a participant from a room
func (c *realClient) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	_, err := c.roomClient.RemoveParticipant(ctx, &livekit.RoomParticipantIdentity{
		Room:     roomName,
		Identity: identity,
	})
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// JoinToken generates an access token for joining a room
func (c *realClient) JoinToken(userID, roomName, participantName string, options *TokenOptions) (string, error) {
	if options == nil {
		options = &TokenOptions{
			ValidFor:       6 * time.Hour,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		}
	}

	at := auth.NewAccessToken(c.apiKey, c.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           roomName,
		CanPublish:     &options.CanPublish,
		CanSubscribe:   &options.CanSubscribe,
		CanPublishData: &options.CanPublishData,
	}
	if options.RoomAdmin {
		grant.RoomAdmin = true
	}

	at.AddGrant(grant).
		SetIdentity(userID).
		SetName(participantName).
		SetValidFor(options.ValidFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ListParticipants lists all participants in a room
func (c *realClient) ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error) {
	resp, err := c.roomClient.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: roomName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		participants = append(participants, &ParticipantInfo{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
			Metadata: p.Metadata,
			JoinedAt: time.Unix(p.JoinedAt, 0),
		})
	}
	return participants, nil
}

// mockClient simulates the media server for dev and tests
type mockClient struct{}

func (m *mockClient) CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	maxParticipants := int32(200)
	if options != nil && options.MaxParticipants > 0 {
		maxParticipants = options.MaxParticipants
	}
	return &RoomInfo{
		Name:            name,
		SID:             "mock-sid-" + uuid.New().String(),
		CreationTime:    time.Now(),
		MaxParticipants: maxParticipants,
	}, nil
}

func (m *mockClient) DeleteRoom(ctx context.Context, roomName string) error {
	return nil
}

func (m *mockClient) JoinToken(userID, roomName, participantName string, options *TokenOptions) (string, error) {
	return "mock-token-" + uuid.New().String(), nil
}

func (m *mockClient) ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error) {
	return []*ParticipantInfo{}, nil
}

func (m *mockClient) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	return nil
}
