package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/goccy/go-json"
)

const (
	endpointIndex  = ""
	endpointHome   = "home"
	endpointAlbum  = "album"
	endpointImage  = "image"
	endpointThumbs = "thumbnails"
)

type GalleryServicer interface {
	GetHomeData(ctx context.Context) (*models.HomePageData, error)
	GetAlbumData(ctx context.Context, albumID int) (*models.AlbumPageData, error)

	SignUp(ctx context.Context, request models.SignUpRequest) (models.ActionResponse, error)
	SignIn(ctx context.Context, request models.SignInRequest) (models.ActionResponse, error)
	CheckUsernameAvailability(ctx context.Context, username string) (bool, error)

	CreateAlbum(ctx context.Context, albumTitle string) (models.ActionResponse, error)
	AddImage(ctx context.Context, request models.AddImageRequest) (models.ActionResponse, error)
	LogoutHome(ctx context.Context) (models.ActionResponse, error)

	LogoutAlbum(ctx context.Context, albumID int) (models.ActionResponse, error)
	ReturnToHome(ctx context.Context, albumID int) (models.ActionResponse, error)
	SaveOrder(ctx context.Context, albumID int, sortedImageIDs []int) (models.ActionResponse, error)

	AddComment(ctx context.Context, albumID, imageID int, commentText string) (models.ActionResponse, error)
	DeleteImage(ctx context.Context, albumID, imageID int) (models.ActionResponse, error)

	PrewarmThumbnails(ctx context.Context, imageIDs []int) error
}

type GalleryServiceConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

/*
GalleryService talks to the gallery server's JSON API. Page data is
fetched with plain GETs, every other interaction is a POST of
{"action": <tag>, ...fields}. Nothing is retried.
*/
type GalleryService struct {
	baseURL    string
	httpClient *http.Client
}

func NewGalleryService(config GalleryServiceConfig) GalleryService {
	baseURL := config.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return GalleryService{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

/*
GET ./home
*/
func (s GalleryService) GetHomeData(ctx context.Context) (*models.HomePageData, error) {
	result := &models.HomePageData{}

	if err := s.get(ctx, endpointHome, nil, result); err != nil {
		return nil, err
	}

	return result, nil
}

/*
GET ./album?albumId=N
*/
func (s GalleryService) GetAlbumData(ctx context.Context, albumID int) (*models.AlbumPageData, error) {
	result := &models.AlbumPageData{}

	if err := s.get(ctx, endpointAlbum, albumQuery(albumID), result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s GalleryService) SignUp(ctx context.Context, request models.SignUpRequest) (models.ActionResponse, error) {
	return s.post(ctx, endpointIndex, nil, "signUp", &request)
}

func (s GalleryService) SignIn(ctx context.Context, request models.SignInRequest) (models.ActionResponse, error) {
	return s.post(ctx, endpointIndex, nil, "signIn", &request)
}

func (s GalleryService) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	response, err := s.post(ctx, endpointIndex, nil, "checkUsernameAvailability", &models.UsernameRequest{
		Username: username,
	})

	if err != nil {
		return false, err
	}

	return response.IsUsernameTaken, nil
}

func (s GalleryService) CreateAlbum(ctx context.Context, albumTitle string) (models.ActionResponse, error) {
	return s.post(ctx, endpointHome, nil, "createAlbum", &models.CreateAlbumRequest{
		AlbumTitle: albumTitle,
	})
}

func (s GalleryService) AddImage(ctx context.Context, request models.AddImageRequest) (models.ActionResponse, error) {
	return s.post(ctx, endpointHome, nil, "addImage", &request)
}

func (s GalleryService) LogoutHome(ctx context.Context) (models.ActionResponse, error) {
	return s.post(ctx, endpointHome, nil, "logoutHome", &models.ActionEnvelope{})
}

func (s GalleryService) LogoutAlbum(ctx context.Context, albumID int) (models.ActionResponse, error) {
	return s.post(ctx, endpointAlbum, albumQuery(albumID), "logoutAlbum", &models.ActionEnvelope{})
}

func (s GalleryService) ReturnToHome(ctx context.Context, albumID int) (models.ActionResponse, error) {
	return s.post(ctx, endpointAlbum, albumQuery(albumID), "returnToHome", &models.ActionEnvelope{})
}

func (s GalleryService) SaveOrder(ctx context.Context, albumID int, sortedImageIDs []int) (models.ActionResponse, error) {
	return s.post(ctx, endpointAlbum, albumQuery(albumID), "saveOrder", &models.SaveOrderRequest{
		SortedImageIDs: sortedImageIDs,
	})
}

func (s GalleryService) AddComment(ctx context.Context, albumID, imageID int, commentText string) (models.ActionResponse, error) {
	return s.post(ctx, endpointImage, imageQuery(albumID, imageID), "addComment", &models.AddCommentRequest{
		CommentText: commentText,
	})
}

func (s GalleryService) DeleteImage(ctx context.Context, albumID, imageID int) (models.ActionResponse, error) {
	return s.post(ctx, endpointImage, imageQuery(albumID, imageID), "deleteImage", &models.ActionEnvelope{})
}

/*
POST ./thumbnails/prewarm

Thumbnails are served by the website in front of the gallery server, so
this is a plain JSON post rather than an action.
*/
func (s GalleryService) PrewarmThumbnails(ctx context.Context, imageIDs []int) error {
	var (
		err      error
		body     []byte
		request  *http.Request
		response *http.Response
	)

	if body, err = json.Marshal(map[string]any{"imageIds": imageIDs}); err != nil {
		return fmt.Errorf("error encoding prewarm request: %w", err)
	}

	request, err = http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL(endpointThumbs+"/prewarm", nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building prewarm request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")

	if response, err = s.httpClient.Do(request); err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}

	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if !isOK(response.StatusCode) {
		return &APIError{StatusCode: response.StatusCode}
	}

	return nil
}

func (s GalleryService) get(ctx context.Context, endpoint string, query url.Values, dest any) error {
	var (
		err      error
		request  *http.Request
		response *http.Response
		body     []byte
	)

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, s.endpointURL(endpoint, query), nil); err != nil {
		return fmt.Errorf("error building request for '%s': %w", endpoint, err)
	}

	if response, err = s.httpClient.Do(request); err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}

	defer response.Body.Close()

	if body, err = io.ReadAll(response.Body); err != nil {
		return fmt.Errorf("%w: error reading body: %w", ErrServerUnreachable, err)
	}

	if !isOK(response.StatusCode) {
		return newAPIError(response.StatusCode, body)
	}

	if err = json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return nil
}

/*
post tags payload with action and sends it as one JSON object.
*/
func (s GalleryService) post(ctx context.Context, endpoint string, query url.Values, action string, payload models.ActionPayload) (models.ActionResponse, error) {
	var (
		err      error
		envelope []byte
		request  *http.Request
		response *http.Response
		body     []byte
		result   models.ActionResponse
	)

	payload.SetAction(action)

	if envelope, err = json.Marshal(payload); err != nil {
		return result, fmt.Errorf("error encoding '%s' request: %w", action, err)
	}

	request, err = http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL(endpoint, query), bytes.NewReader(envelope))
	if err != nil {
		return result, fmt.Errorf("error building '%s' request: %w", action, err)
	}

	request.Header.Set("Content-Type", "application/json")

	if response, err = s.httpClient.Do(request); err != nil {
		return result, fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}

	defer response.Body.Close()

	if body, err = io.ReadAll(response.Body); err != nil {
		return result, fmt.Errorf("%w: error reading body: %w", ErrServerUnreachable, err)
	}

	if !isOK(response.StatusCode) {
		return result, newAPIError(response.StatusCode, body)
	}

	if err = json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return result, nil
}

func (s GalleryService) endpointURL(endpoint string, query url.Values) string {
	u := s.baseURL + endpoint

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func newAPIError(statusCode int, body []byte) *APIError {
	result := &APIError{StatusCode: statusCode}
	response := models.ActionResponse{}

	if err := json.Unmarshal(body, &response); err == nil {
		result.Message = response.Message
		result.Redirect = response.Redirect
	}

	return result
}

func isOK(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func albumQuery(albumID int) url.Values {
	return url.Values{"albumId": []string{strconv.Itoa(albumID)}}
}

func imageQuery(albumID, imageID int) url.Values {
	return url.Values{
		"albumId": []string{strconv.Itoa(albumID)},
		"imageId": []string{strconv.Itoa(imageID)},
	}
}
