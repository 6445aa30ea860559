// Package model holds the flat read-model records returned by gateway API
// calls. They mirror wire fields one-to-one and are point-in-time snapshots:
// nothing here is cached or kept authoritative by the client.
package model

import "github.com/tinyland-inc/milky/pkg/message"

// FriendCategory is a friend-list grouping.
type FriendCategory struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Profile is the detailed profile of a user.
type Profile struct {
	Nickname string `json:"nickname"`
	Qid      string `json:"qid,omitempty"`
	Age      int    `json:"age,omitempty"`
	Sex      string `json:"sex,omitempty"` // "male", "female" or "unknown"
	Remark   string `json:"remark,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Level    int    `json:"level,omitempty"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	School   string `json:"school,omitempty"`
}

// Friend is one friend-list entry.
type Friend struct {
	UserID   int64           `json:"user_id"`
	Nickname string          `json:"nickname"`
	Sex      string          `json:"sex,omitempty"`
	Qid      string          `json:"qid,omitempty"`
	Remark   string          `json:"remark,omitempty"`
	Category *FriendCategory `json:"category,omitempty"`
}

// Group is one group-list entry.
type Group struct {
	GroupID        int64  `json:"group_id"`
	GroupName      string `json:"group_name"`
	MemberCount    int    `json:"member_count"`
	MaxMemberCount int    `json:"max_member_count"`
}

// Member is one group member.
type Member struct {
	GroupID       int64  `json:"group_id"`
	UserID        int64  `json:"user_id"`
	Nickname      string `json:"nickname"`
	Sex           string `json:"sex,omitempty"`
	Card          string `json:"card,omitempty"`
	Title         string `json:"title,omitempty"`
	Level         int    `json:"level,omitempty"`
	Role          string `json:"role"` // "member", "admin" or "owner"
	JoinTime      int64  `json:"join_time,omitempty"`
	LastSentTime  int64  `json:"last_sent_time,omitempty"`
	ShutUpEndTime int64  `json:"shut_up_end_time,omitempty"`
}

// Announcement is one group announcement.
type Announcement struct {
	GroupID        int64  `json:"group_id"`
	AnnouncementID string `json:"announcement_id"`
	UserID         int64  `json:"user_id"`
	Time           int64  `json:"time"`
	Content        string `json:"content"`
	ImageURL       string `json:"image_url,omitempty"`
}

// FileInfo describes one group file.
type FileInfo struct {
	GroupID         int64  `json:"group_id"`
	FileID          string `json:"file_id"`
	FileName        string `json:"file_name"`
	ParentFolderID  string `json:"parent_folder_id,omitempty"`
	FileSize        int64  `json:"file_size"`
	UploadedTime    int64  `json:"uploaded_time"`
	ExpireTime      int64  `json:"expire_time,omitempty"`
	UploaderID      int64  `json:"uploader_id"`
	DownloadedTimes int    `json:"downloaded_times"`
}

// FolderInfo describes one group file folder.
type FolderInfo struct {
	GroupID          int64  `json:"group_id"`
	FolderID         string `json:"folder_id"`
	FolderName       string `json:"folder_name"`
	ParentFolderID   string `json:"parent_folder_id,omitempty"`
	CreatedTime      int64  `json:"created_time"`
	LastModifiedTime int64  `json:"last_modified_time"`
	CreatorID        int64  `json:"creator_id"`
	FileCount        int    `json:"file_count"`
}

// GroupEssenceMessage is one pinned "essence" message of a group.
type GroupEssenceMessage struct {
	GroupID       int64           `json:"group_id"`
	MessageSeq    int64           `json:"message_seq"`
	MessageTime   int64           `json:"message_time"`
	SenderID      int64           `json:"sender_id"`
	SenderName    string          `json:"sender_name"`
	OperatorID    int64           `json:"operator_id"`
	OperatorName  string          `json:"operator_name"`
	OperationTime int64           `json:"operation_time"`
	Segments      message.Message `json:"segments"`
}

// FriendRequest is one pending or settled friend request.
type FriendRequest struct {
	Time          int64  `json:"time"`
	InitiatorID   int64  `json:"initiator_id"`
	InitiatorUID  string `json:"initiator_uid,omitempty"`
	TargetUserID  int64  `json:"target_user_id"`
	TargetUserUID string `json:"target_user_uid,omitempty"`
	State         string `json:"state"` // "pending", "accepted", "rejected" or "ignored"
	Comment       string `json:"comment,omitempty"`
	Via           string `json:"via,omitempty"`
	IsFiltered    bool   `json:"is_filtered,omitempty"`
}

// GroupNotification is one entry of the group notification feed. Type
// discriminates the variant; fields not applicable to a variant stay zero.
type GroupNotification struct {
	Type            string `json:"type"` // join_request, admin_change, kick, quit, invited_join_request
	GroupID         int64  `json:"group_id"`
	NotificationSeq int64  `json:"notification_seq"`
	InitiatorID     int64  `json:"initiator_id,omitempty"`
	TargetUserID    int64  `json:"target_user_id,omitempty"`
	OperatorID      int64  `json:"operator_id,omitempty"`
	State           string `json:"state,omitempty"`
	Comment         string `json:"comment,omitempty"`
	IsSet           bool   `json:"is_set,omitempty"`
	IsFiltered      bool   `json:"is_filtered,omitempty"`
}

// LoginInfo is the identity behind the gateway connection.
type LoginInfo struct {
	UIN      int64  `json:"uin"`
	Nickname string `json:"nickname"`
}

// SendPrivateResponse is the result of send_private_message.
type SendPrivateResponse struct {
	MessageSeq int64 `json:"message_seq"`
	Time       int64 `json:"time"`
	ClientSeq  int64 `json:"client_seq"`
}

// GetReply builds a reply segment referencing the sent message.
func (r SendPrivateResponse) GetReply() message.Reply {
	return message.Reply{MessageSeq: r.MessageSeq, ClientSeq: r.ClientSeq}
}

// SendGroupResponse is the result of send_group_message.
type SendGroupResponse struct {
	MessageSeq int64 `json:"message_seq"`
	Time       int64 `json:"time"`
}

// GetReply builds a reply segment referencing the sent message.
func (r SendGroupResponse) GetReply() message.Reply {
	return message.Reply{MessageSeq: r.MessageSeq}
}
