package bot

import (
	"context"

	"github.com/tinyland-inc/milky/pkg/api"
	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/message"
	"github.com/tinyland-inc/milky/pkg/model"
)

// SendPrivateMessage sends a message to a friend or temp session.
func (b *Bot) SendPrivateMessage(ctx context.Context, userID int64, msg message.Message) (*model.SendPrivateResponse, error) {
	elements, err := msg.ToElements()
	if err != nil {
		return nil, err
	}
	var resp model.SendPrivateResponse
	if err := b.client.CallInto(ctx, "send_private_message", api.Params{
		"user_id": userID,
		"message": elements,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendGroupMessage sends a message to a group.
func (b *Bot) SendGroupMessage(ctx context.Context, groupID int64, msg message.Message) (*model.SendGroupResponse, error) {
	elements, err := msg.ToElements()
	if err != nil {
		return nil, err
	}
	var resp model.SendGroupResponse
	if err := b.client.CallInto(ctx, "send_group_message", api.Params{
		"group_id": groupID,
		"message":  elements,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecallPrivateMessage recalls a message the bot sent in a private chat.
func (b *Bot) RecallPrivateMessage(ctx context.Context, userID, messageSeq, clientSeq int64) error {
	return b.client.CallInto(ctx, "recall_private_message", api.Params{
		"user_id":     userID,
		"message_seq": messageSeq,
		"client_seq":  clientSeq,
	}, nil)
}

// RecallGroupMessage recalls a group message.
func (b *Bot) RecallGroupMessage(ctx context.Context, groupID, messageSeq int64) error {
	return b.client.CallInto(ctx, "recall_group_message", api.Params{
		"group_id":    groupID,
		"message_seq": messageSeq,
	}, nil)
}

// GetMessage fetches one message by scene, peer and sequence number.
func (b *Bot) GetMessage(ctx context.Context, scene string, peerID, messageSeq int64) (*event.IncomingMessage, error) {
	var resp struct {
		Message event.IncomingMessage `json:"message"`
	}
	if err := b.client.CallInto(ctx, "get_message", api.Params{
		"message_scene": scene,
		"peer_id":       peerID,
		"message_seq":   messageSeq,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// GetResourceTempURL exchanges a resource id for a short-lived download URL.
func (b *Bot) GetResourceTempURL(ctx context.Context, resourceID string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := b.client.CallInto(ctx, "get_resource_temp_url", api.Params{
		"resource_id": resourceID,
	}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// GetForwardedMessages fetches the messages behind a forward id.
func (b *Bot) GetForwardedMessages(ctx context.Context, forwardID string) ([]message.ForwardedMessage, error) {
	var resp struct {
		Messages []message.ForwardedMessage `json:"messages"`
	}
	if err := b.client.CallInto(ctx, "get_forwarded_messages", api.Params{
		"forward_id": forwardID,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// GetLoginInfo fetches the identity behind the gateway connection.
func (b *Bot) GetLoginInfo(ctx context.Context) (*model.LoginInfo, error) {
	var resp model.LoginInfo
	if err := b.client.CallInto(ctx, "get_login_info", api.Params{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFriendList fetches the friend list. Set noCache to bypass the
// gateway-side cache.
func (b *Bot) GetFriendList(ctx context.Context, noCache bool) ([]model.Friend, error) {
	var resp struct {
		Friends []model.Friend `json:"friends"`
	}
	if err := b.client.CallInto(ctx, "get_friend_list", api.Params{
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

// GetFriendInfo fetches one friend entry.
func (b *Bot) GetFriendInfo(ctx context.Context, userID int64, noCache bool) (*model.Friend, error) {
	var resp struct {
		Friend model.Friend `json:"friend"`
	}
	if err := b.client.CallInto(ctx, "get_friend_info", api.Params{
		"user_id":  userID,
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Friend, nil
}

// GetUserProfile fetches the profile of an arbitrary user.
func (b *Bot) GetUserProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	var resp model.Profile
	if err := b.client.CallInto(ctx, "get_user_profile", api.Params{
		"user_id": userID,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGroupList fetches all groups the bot is in.
func (b *Bot) GetGroupList(ctx context.Context, noCache bool) ([]model.Group, error) {
	var resp struct {
		Groups []model.Group `json:"groups"`
	}
	if err := b.client.CallInto(ctx, "get_group_list", api.Params{
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// GetGroupInfo fetches one group.
func (b *Bot) GetGroupInfo(ctx context.Context, groupID int64, noCache bool) (*model.Group, error) {
	var resp struct {
		Group model.Group `json:"group"`
	}
	if err := b.client.CallInto(ctx, "get_group_info", api.Params{
		"group_id": groupID,
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Group, nil
}

// GetGroupMemberList fetches all members of a group.
func (b *Bot) GetGroupMemberList(ctx context.Context, groupID int64, noCache bool) ([]model.Member, error) {
	var resp struct {
		Members []model.Member `json:"members"`
	}
	if err := b.client.CallInto(ctx, "get_group_member_list", api.Params{
		"group_id": groupID,
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// GetGroupMemberInfo fetches one group member.
func (b *Bot) GetGroupMemberInfo(ctx context.Context, groupID, userID int64, noCache bool) (*model.Member, error) {
	var resp struct {
		Member model.Member `json:"member"`
	}
	if err := b.client.CallInto(ctx, "get_group_member_info", api.Params{
		"group_id": groupID,
		"user_id":  userID,
		"no_cache": noCache,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Member, nil
}

// SendFriendNudge pokes a friend.
func (b *Bot) SendFriendNudge(ctx context.Context, userID int64) error {
	return b.client.CallInto(ctx, "send_friend_nudge", api.Params{
		"user_id": userID,
	}, nil)
}

// SendGroupNudge pokes a group member.
func (b *Bot) SendGroupNudge(ctx context.Context, groupID, userID int64) error {
	return b.client.CallInto(ctx, "send_group_nudge", api.Params{
		"group_id": groupID,
		"user_id":  userID,
	}, nil)
}

// GetFriendRequests fetches up to limit pending friend requests.
func (b *Bot) GetFriendRequests(ctx context.Context, limit int) ([]model.FriendRequest, error) {
	var resp struct {
		Requests []model.FriendRequest `json:"requests"`
	}
	if err := b.client.CallInto(ctx, "get_friend_requests", api.Params{
		"limit": limit,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// GetGroupNotifications fetches the group notification feed starting at
// startSeq (0 for the newest).
func (b *Bot) GetGroupNotifications(ctx context.Context, startSeq int64, limit int) ([]model.GroupNotification, int64, error) {
	var resp struct {
		Notifications []model.GroupNotification `json:"notifications"`
		NextSeq       int64                     `json:"next_notification_seq"`
	}
	params := api.Params{"limit": limit}
	if startSeq > 0 {
		params["start_notification_seq"] = startSeq
	}
	if err := b.client.CallInto(ctx, "get_group_notifications", params, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Notifications, resp.NextSeq, nil
}

// AcceptFriendRequest accepts a friend request by id.
func (b *Bot) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return b.client.CallInto(ctx, "accept_friend_request", api.Params{
		"request_id": requestID,
	}, nil)
}

// RejectFriendRequest rejects a friend request by id, with an optional
// reason shown to the requester.
func (b *Bot) RejectFriendRequest(ctx context.Context, requestID, reason string) error {
	params := api.Params{"request_id": requestID}
	if reason != "" {
		params["reason"] = reason
	}
	return b.client.CallInto(ctx, "reject_friend_request", params, nil)
}

// AcceptGroupRequest accepts a join request the bot administers.
func (b *Bot) AcceptGroupRequest(ctx context.Context, requestID string) error {
	return b.client.CallInto(ctx, "accept_group_request", api.Params{
		"request_id": requestID,
	}, nil)
}

// RejectGroupRequest rejects a join request, with an optional reason.
func (b *Bot) RejectGroupRequest(ctx context.Context, requestID, reason string) error {
	params := api.Params{"request_id": requestID}
	if reason != "" {
		params["reason"] = reason
	}
	return b.client.CallInto(ctx, "reject_group_request", params, nil)
}

// AcceptGroupInvitation accepts an invitation for the bot to join a group.
func (b *Bot) AcceptGroupInvitation(ctx context.Context, requestID string) error {
	return b.client.CallInto(ctx, "accept_group_invitation", api.Params{
		"request_id": requestID,
	}, nil)
}

// RejectGroupInvitation declines an invitation for the bot to join a group.
func (b *Bot) RejectGroupInvitation(ctx context.Context, requestID string) error {
	return b.client.CallInto(ctx, "reject_group_invitation", api.Params{
		"request_id": requestID,
	}, nil)
}

// SetGroupName renames a group.
func (b *Bot) SetGroupName(ctx context.Context, groupID int64, name string) error {
	return b.client.CallInto(ctx, "set_group_name", api.Params{
		"group_id": groupID,
		"name":     name,
	}, nil)
}

// KickGroupMember removes a member from a group. rejectAddRequest also
// blocks future join requests from that user.
func (b *Bot) KickGroupMember(ctx context.Context, groupID, userID int64, rejectAddRequest bool) error {
	return b.client.CallInto(ctx, "kick_group_member", api.Params{
		"group_id":           groupID,
		"user_id":            userID,
		"reject_add_request": rejectAddRequest,
	}, nil)
}

// QuitGroup makes the bot leave a group.
func (b *Bot) QuitGroup(ctx context.Context, groupID int64) error {
	return b.client.CallInto(ctx, "quit_group", api.Params{
		"group_id": groupID,
	}, nil)
}

// GetGroupAnnouncements fetches the announcements of a group.
func (b *Bot) GetGroupAnnouncements(ctx context.Context, groupID int64) ([]model.Announcement, error) {
	var resp struct {
		Announcements []model.Announcement `json:"announcements"`
	}
	if err := b.client.CallInto(ctx, "get_group_announcements", api.Params{
		"group_id": groupID,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Announcements, nil
}

// SendGroupAnnouncement publishes a group announcement, optionally with an
// attached image URI.
func (b *Bot) SendGroupAnnouncement(ctx context.Context, groupID int64, content, imageURI string) error {
	params := api.Params{
		"group_id": groupID,
		"content":  content,
	}
	if imageURI != "" {
		params["image_uri"] = imageURI
	}
	return b.client.CallInto(ctx, "send_group_announcement", params, nil)
}

// DeleteGroupAnnouncement removes a group announcement.
func (b *Bot) DeleteGroupAnnouncement(ctx context.Context, groupID int64, announcementID string) error {
	return b.client.CallInto(ctx, "delete_group_announcement", api.Params{
		"group_id":        groupID,
		"announcement_id": announcementID,
	}, nil)
}

// GetGroupFiles lists the files and folders of a group, scoped to
// parentFolderID when non-empty.
func (b *Bot) GetGroupFiles(ctx context.Context, groupID int64, parentFolderID string) ([]model.FileInfo, []model.FolderInfo, error) {
	params := api.Params{"group_id": groupID}
	if parentFolderID != "" {
		params["parent_folder_id"] = parentFolderID
	}
	var resp struct {
		Files   []model.FileInfo   `json:"files"`
		Folders []model.FolderInfo `json:"folders"`
	}
	if err := b.client.CallInto(ctx, "get_group_files", params, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Files, resp.Folders, nil
}

// GetGroupEssenceMessages fetches one page of a group's essence messages.
// The second result reports whether this was the last page.
func (b *Bot) GetGroupEssenceMessages(ctx context.Context, groupID int64, pageIndex, pageSize int) ([]model.GroupEssenceMessage, bool, error) {
	var resp struct {
		Messages []model.GroupEssenceMessage `json:"messages"`
		IsEnd    bool                        `json:"is_end"`
	}
	if err := b.client.CallInto(ctx, "get_group_essence_messages", api.Params{
		"group_id":   groupID,
		"page_index": pageIndex,
		"page_size":  pageSize,
	}, &resp); err != nil {
		return nil, false, err
	}
	return resp.Messages, resp.IsEnd, nil
}
