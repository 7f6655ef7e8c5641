// internal/app/system/invitations/coordinator.go
package invitations

import (
	"context"

	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Coordinator drives invitation and membership transitions across the user
// and project collections. The two collections have no shared transaction,
// so each transition is an ordered sequence of idempotent set writes: if a
// step fails after an earlier one succeeded, the call reports
// PartialTransition and the caller may simply re-invoke the operation —
// every write is an $addToSet or $pull, so re-driving converges on the
// same terminal state. Nothing is rolled back or retried here.
//
// Per (user, project) pair the subsystem is a three-state machine:
//
//	NONE --Invite--> INVITED --Accept--> MEMBER
//	                 INVITED --Deny----> NONE
//
// MEMBER and NONE are terminal; there is no remove-member operation.
type Coordinator struct {
	users    *userstore.Store
	projects *projectstore.Store
	log      *zap.Logger
}

func NewCoordinator(users *userstore.Store, projects *projectstore.Store, logger *zap.Logger) *Coordinator {
	return &Coordinator{users: users, projects: projects, log: logger}
}

// Invite records a pending invitation for the named user on both sides.
//
// The inviter must be a current member of the project; the target must
// resolve and must not already be invited or a member. The user-side write
// lands first so that a half-completed invite is visible to the invited
// user; a failure after that point is reported as PartialTransition.
func (c *Coordinator) Invite(ctx context.Context, inviterID, projectID primitive.ObjectID, targetUsername string) error {
	project, err := c.projects.GetDoc(ctx, projectID)
	if err != nil {
		return err
	}
	if !contains(project.Members, inviterID) {
		return apperr.New(apperr.NotAMember, "user %s is not in the project", inviterID.Hex())
	}

	target, err := c.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if contains(project.Members, target.ID) || contains(project.Invitations, target.ID) {
		return apperr.New(apperr.AlreadyInvitedOrMember, "user %s is already invited or a member", targetUsername)
	}

	if err := c.users.AddInvitation(ctx, target.ID, projectID); err != nil {
		return err
	}
	if err := c.projects.AddInvitation(ctx, projectID, target.ID); err != nil {
		c.log.Error("invite: project-side invitation write failed after user-side write",
			zap.String("project_id", projectID.Hex()),
			zap.String("user_id", target.ID.Hex()),
			zap.Error(err))
		return apperr.Wrap(apperr.PartialTransition, err, "invitation was only partially recorded")
	}
	return nil
}

// Accept promotes a pending invitation to a membership.
//
// The four writes run in a fixed order: user gains the membership before
// losing the invitation, and the user side completes before the project
// side. A crash partway through leaves the user correctly enrolled with at
// worst a stale project-side invitation record, which a re-invocation (or
// an out-of-band reconciliation sweep) clears.
func (c *Coordinator) Accept(ctx context.Context, userID, projectID primitive.ObjectID) (*models.ProjectView, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !contains(user.Invitations, projectID) {
		return nil, apperr.New(apperr.NotFound, "no pending invitation for project %s", projectID.Hex())
	}

	if err := c.users.AddMembership(ctx, userID, projectID); err != nil {
		return nil, err
	}
	if err := c.users.RemoveInvitation(ctx, userID, projectID); err != nil {
		return nil, c.partial(ctx, "accept", userID, projectID, err)
	}
	if err := c.projects.AddMember(ctx, projectID, userID); err != nil {
		return nil, c.partial(ctx, "accept", userID, projectID, err)
	}
	if err := c.projects.RemoveInvitation(ctx, projectID, userID); err != nil {
		return nil, c.partial(ctx, "accept", userID, projectID, err)
	}

	return c.projects.Get(ctx, projectID)
}

// Deny withdraws a pending invitation from both sides.
func (c *Coordinator) Deny(ctx context.Context, userID, projectID primitive.ObjectID) error {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !contains(user.Invitations, projectID) {
		return apperr.New(apperr.NotFound, "no pending invitation for project %s", projectID.Hex())
	}

	if err := c.users.RemoveInvitation(ctx, userID, projectID); err != nil {
		return err
	}
	if err := c.projects.RemoveInvitation(ctx, projectID, userID); err != nil {
		return c.partial(ctx, "deny", userID, projectID, err)
	}
	return nil
}

func (c *Coordinator) partial(_ context.Context, op string, userID, projectID primitive.ObjectID, cause error) error {
	c.log.Error("invitation transition partially applied",
		zap.String("op", op),
		zap.String("user_id", userID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.Error(cause))
	return apperr.Wrap(apperr.PartialTransition, cause, "the %s transition was only partially applied", op)
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
