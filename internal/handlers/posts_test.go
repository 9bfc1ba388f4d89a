package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/mocks"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

func setupPostRouter(viewerID int, posts *mocks.PostRepositoryMock, friends *mocks.FriendRepositoryMock) *gin.Engine {
	handler := NewPostHandler(posts, friends)
	r := newTestRouter(viewerID)
	r.POST("/createPost", handler.Create)
	r.GET("/userPosts/:id", handler.UserPosts)
	r.GET("/post/:id", handler.Get)
	r.POST("/editPost/:id", handler.Edit)
	r.GET("/likePost/:id", handler.Like)
	r.POST("/leaveComment/:id", handler.Comment)
	return r
}

func postView(id, ownerID int, status models.PostStatus) models.PostView {
	return models.PostView{Post: models.Post{ID: id, OwnerID: ownerID, Status: status, AllowComments: true}}
}

func TestCreatePostRequiresFields(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	router := setupPostRouter(1, posts, new(mocks.FriendRepositoryMock))

	rec := doForm(router, http.MethodPost, "/createPost", "title=Hi")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePostSuccess(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	router := setupPostRouter(1, posts, new(mocks.FriendRepositoryMock))

	in := models.PostInput{Title: "Hi", Body: "there", Status: "friends", AllowComments: true}
	posts.On("Create", mock.Anything, 1, in).Return(models.Post{ID: 3, OwnerID: 1, Status: models.PostFriends, Icon: "fa fa-group"}, nil).Once()

	rec := doForm(router, http.MethodPost, "/createPost", "title=Hi&body=there&status=friends&allowComments=true")

	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody(t, rec)["post"].(map[string]any)
	assert.Equal(t, "fa fa-group", post["icon"])
	posts.AssertExpectations(t)
}

func TestGetPrivatePostHiddenFromOthers(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	router := setupPostRouter(2, posts, friends)

	posts.On("Get", mock.Anything, 9).Return(postView(9, 1, models.PostPrivate), nil).Once()

	rec := doJSON(router, http.MethodGet, "/post/9", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	friends.AssertNotCalled(t, "AreFriends", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetFriendsPostVisibleToFriend(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	router := setupPostRouter(2, posts, friends)

	posts.On("Get", mock.Anything, 9).Return(postView(9, 1, models.PostFriends), nil).Once()
	friends.On("AreFriends", mock.Anything, 2, 1).Return(true, nil).Once()

	rec := doJSON(router, http.MethodGet, "/post/9", "")

	require.Equal(t, http.StatusOK, rec.Code)
	friends.AssertExpectations(t)
}

func TestGetFriendsPostHiddenFromStranger(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	router := setupPostRouter(2, posts, friends)

	posts.On("Get", mock.Anything, 9).Return(postView(9, 1, models.PostFriends), nil).Once()
	friends.On("AreFriends", mock.Anything, 2, 1).Return(false, nil).Once()

	rec := doJSON(router, http.MethodGet, "/post/9", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserPostsScopesByFriendship(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	router := setupPostRouter(2, posts, friends)

	friends.On("AreFriends", mock.Anything, 2, 1).Return(true, nil).Once()
	posts.On("ListByOwner", mock.Anything, 1, []models.PostStatus{models.PostPublic, models.PostFriends}).
		Return([]models.FeedItem{}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/userPosts/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	posts.AssertExpectations(t)
}

func TestEditPostByNonOwner(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	router := setupPostRouter(2, posts, new(mocks.FriendRepositoryMock))

	posts.On("Update", mock.Anything, 9, 2, mock.Anything).Return(nil, repositories.ErrNotPostOwner).Once()

	rec := doForm(router, http.MethodPost, "/editPost/9", "title=a&body=b&status=public")

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized", decodeBody(t, rec)["kind"])
}

func TestLikeVisiblePost(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	router := setupPostRouter(2, posts, new(mocks.FriendRepositoryMock))

	posts.On("Get", mock.Anything, 9).Return(postView(9, 1, models.PostPublic), nil).Once()
	posts.On("Like", mock.Anything, 9, 2).Return(nil).Once()

	rec := doJSON(router, http.MethodGet, "/likePost/9", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	posts.AssertExpectations(t)
}

func TestCommentDisabled(t *testing.T) {
	posts := new(mocks.PostRepositoryMock)
	router := setupPostRouter(2, posts, new(mocks.FriendRepositoryMock))

	posts.On("Get", mock.Anything, 9).Return(postView(9, 1, models.PostPublic), nil).Once()
	posts.On("Comment", mock.Anything, 9, 2, "nice").Return(nil, repositories.ErrCommentsDisabled).Once()

	rec := doForm(router, http.MethodPost, "/leaveComment/9", "commentBody=nice")

	require.Equal(t, http.StatusForbidden, rec.Code)
	posts.AssertExpectations(t)
}
