package group_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/group"
)

func TestGroupService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Group Service Suite")
}

type mockGroupRepository struct {
	groups           map[uuid.UUID]*datamodel.Group
	companies        map[uuid.UUID]*datamodel.Company
	users            map[uuid.UUID]*datamodel.User
	knownPermissions map[uuid.UUID]struct{}
	groupPermissions map[uuid.UUID][]uuid.UUID
	groupUsers       map[uuid.UUID][]uuid.UUID
}

func newMockGroupRepository() *mockGroupRepository {
	return &mockGroupRepository{
		groups:           make(map[uuid.UUID]*datamodel.Group),
		companies:        make(map[uuid.UUID]*datamodel.Company),
		users:            make(map[uuid.UUID]*datamodel.User),
		knownPermissions: make(map[uuid.UUID]struct{}),
		groupPermissions: make(map[uuid.UUID][]uuid.UUID),
		groupUsers:       make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockGroupRepository) Create(g *datamodel.Group) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroupRepository) GetByID(id uuid.UUID) (*datamodel.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, internal.ErrGroupNotFound
	}
	return g, nil
}

func (m *mockGroupRepository) GetByCompany(companyID uuid.UUID) ([]*datamodel.Group, error) {
	var result []*datamodel.Group
	for _, g := range m.groups {
		if g.CompanyID == companyID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *mockGroupRepository) Update(g *datamodel.Group) error {
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroupRepository) Delete(id uuid.UUID) error {
	if _, ok := m.groups[id]; !ok {
		return internal.ErrGroupNotFound
	}
	delete(m.groups, id)
	delete(m.groupPermissions, id)
	delete(m.groupUsers, id)
	return nil
}

func (m *mockGroupRepository) ReplacePermissions(groupID uuid.UUID, permissionIDs []uuid.UUID) error {
	var kept []uuid.UUID
	for _, pid := range permissionIDs {
		if _, ok := m.knownPermissions[pid]; ok {
			kept = append(kept, pid)
		}
	}
	m.groupPermissions[groupID] = kept
	return nil
}

func (m *mockGroupRepository) AddUser(groupID, userID uuid.UUID) error {
	for _, existing := range m.groupUsers[groupID] {
		if existing == userID {
			return nil
		}
	}
	m.groupUsers[groupID] = append(m.groupUsers[groupID], userID)
	return nil
}

func (m *mockGroupRepository) RemoveUser(groupID, userID uuid.UUID) error {
	members := m.groupUsers[groupID]
	for i, existing := range members {
		if existing == userID {
			m.groupUsers[groupID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockGroupRepository) GetCompany(companyID uuid.UUID) (*datamodel.Company, error) {
	c, ok := m.companies[companyID]
	if !ok {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}

func (m *mockGroupRepository) GetUser(userID uuid.UUID) (*datamodel.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

var _ = Describe("GroupService", func() {
	var (
		repo      *mockGroupRepository
		service   *group.Service
		adminID   uuid.UUID
		companyID uuid.UUID
	)

	BeforeEach(func() {
		repo = newMockGroupRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = group.NewService(repo, logger)

		adminID = uuid.New()
		companyID = uuid.New()
		repo.companies[companyID] = &datamodel.Company{
			Base:            datamodel.Base{ID: companyID},
			Name:            "Acme",
			AdministratorID: &adminID,
		}
	})

	Describe("CreateGroup", func() {
		It("creates a group for the company administrator", func() {
			g, err := service.CreateGroup(adminID, group.CreateGroupDTO{CompanyID: companyID, Name: "Editors"})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Name).To(Equal("Editors"))
			Expect(g.CompanyID).To(Equal(companyID))
		})

		It("skips unknown permission IDs", func() {
			known := uuid.New()
			repo.knownPermissions[known] = struct{}{}
			unknown := uuid.New()

			g, err := service.CreateGroup(adminID, group.CreateGroupDTO{
				CompanyID:     companyID,
				Name:          "Editors",
				PermissionIDs: []uuid.UUID{known, unknown},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.groupPermissions[g.ID]).To(ConsistOf([]uuid.UUID{known}))
		})

		It("refuses non-administrators", func() {
			_, err := service.CreateGroup(uuid.New(), group.CreateGroupDTO{CompanyID: companyID, Name: "Editors"})
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})

		It("fails loudly for a missing company", func() {
			_, err := service.CreateGroup(adminID, group.CreateGroupDTO{CompanyID: uuid.New(), Name: "Editors"})
			Expect(errors.Is(err, internal.ErrCompanyNotFound)).To(BeTrue())
		})
	})

	Describe("UpdateGroup", func() {
		It("replaces the permission set", func() {
			first := uuid.New()
			second := uuid.New()
			repo.knownPermissions[first] = struct{}{}
			repo.knownPermissions[second] = struct{}{}

			g, err := service.CreateGroup(adminID, group.CreateGroupDTO{
				CompanyID:     companyID,
				Name:          "Editors",
				PermissionIDs: []uuid.UUID{first},
			})
			Expect(err).NotTo(HaveOccurred())

			newSet := []uuid.UUID{second}
			_, err = service.UpdateGroup(adminID, g.ID, group.UpdateGroupDTO{PermissionIDs: &newSet})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.groupPermissions[g.ID]).To(ConsistOf([]uuid.UUID{second}))
		})

		It("fails loudly for a missing group", func() {
			_, err := service.UpdateGroup(adminID, uuid.New(), group.UpdateGroupDTO{})
			Expect(errors.Is(err, internal.ErrGroupNotFound)).To(BeTrue())
		})
	})

	Describe("membership", func() {
		var g *datamodel.Group

		BeforeEach(func() {
			var err error
			g, err = service.CreateGroup(adminID, group.CreateGroupDTO{CompanyID: companyID, Name: "Editors"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("adds an existing user once", func() {
			userID := uuid.New()
			repo.users[userID] = &datamodel.User{Base: datamodel.Base{ID: userID}}

			Expect(service.AddUserToGroup(adminID, g.ID, userID)).To(Succeed())
			Expect(service.AddUserToGroup(adminID, g.ID, userID)).To(Succeed())
			Expect(repo.groupUsers[g.ID]).To(HaveLen(1))
		})

		It("fails loudly when the user does not exist", func() {
			err := service.AddUserToGroup(adminID, g.ID, uuid.New())
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("removes a member", func() {
			userID := uuid.New()
			repo.users[userID] = &datamodel.User{Base: datamodel.Base{ID: userID}}

			Expect(service.AddUserToGroup(adminID, g.ID, userID)).To(Succeed())
			Expect(service.RemoveUserFromGroup(adminID, g.ID, userID)).To(Succeed())
			Expect(repo.groupUsers[g.ID]).To(BeEmpty())
		})

		It("refuses membership changes from non-administrators", func() {
			userID := uuid.New()
			repo.users[userID] = &datamodel.User{Base: datamodel.Base{ID: userID}}

			err := service.AddUserToGroup(uuid.New(), g.ID, userID)
			Expect(errors.Is(err, internal.ErrNotAdministrator)).To(BeTrue())
		})
	})

	Describe("DeleteGroup", func() {
		It("deletes for the administrator only", func() {
			g, err := service.CreateGroup(adminID, group.CreateGroupDTO{CompanyID: companyID, Name: "Editors"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteGroup(uuid.New(), g.ID)).NotTo(Succeed())
			Expect(service.DeleteGroup(adminID, g.ID)).To(Succeed())

			_, err = service.GetGroup(adminID, g.ID)
			Expect(errors.Is(err, internal.ErrGroupNotFound)).To(BeTrue())
		})
	})
})
