package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"trendcast/types"
)

// videoCategoryID is YouTube's "People & Blogs" category.
const videoCategoryID = "22"

// placeholderMP4 is a minimal valid MP4 container (ftyp + free boxes) used
// as the media payload until real video synthesis exists.
var placeholderMP4 = []byte{
	0x00, 0x00, 0x00, 0x20, 0x66, 0x74, 0x79, 0x70, 0x69, 0x73, 0x6f, 0x6d, 0x00, 0x00, 0x02,
	0x00, 0x69, 0x73, 0x6f, 0x6d, 0x69, 0x73, 0x6f, 0x32, 0x6d, 0x70, 0x34, 0x31, 0x00, 0x00,
	0x00, 0x08, 0x66, 0x72, 0x65, 0x65,
}

// YouTubeClient wraps the YouTube Data API calls made on behalf of a
// connected channel. The authenticated HTTP client is supplied per call
// because each session carries its own tokens.
type YouTubeClient struct{}

// NewYouTubeClient creates the YouTube API wrapper.
func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{}
}

// ChannelInfo fetches the authenticated user's channel snippet and
// statistics.
func (y *YouTubeClient) ChannelInfo(ctx context.Context, client *http.Client) (types.Channel, error) {
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return types.Channel{}, fmt.Errorf("create youtube service: %w", err)
	}

	resp, err := service.Channels.List([]string{"snippet", "statistics"}).Mine(true).Do()
	if err != nil {
		return types.Channel{}, fmt.Errorf("list channels: %w", err)
	}
	if len(resp.Items) == 0 {
		return types.Channel{}, errors.New("no channel found")
	}

	item := resp.Items[0]
	channel := types.Channel{ID: item.Id}
	if item.Snippet != nil {
		channel.Title = item.Snippet.Title
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			channel.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
	}
	if item.Statistics != nil {
		channel.SubscriberCount = item.Statistics.SubscriberCount
	}
	return channel, nil
}

// Upload submits the generation result as a public, not-made-for-kids video
// with the placeholder media payload and returns the public watch URL.
func (y *YouTubeClient) Upload(ctx context.Context, client *http.Client, data types.GenerationResult) (string, error) {
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("create youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       data.Title,
			Description: data.Description,
			Tags:        data.Tags,
			CategoryId:  videoCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(bytes.NewReader(placeholderMP4))

	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", resp.Id), nil
}
