package service

import (
	"context"
	"testing"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/pkg/utils"
)

func TestCreateUserStudentRequiresStandard(t *testing.T) {
	s := newFakeStore()
	svc := NewUserService(&fakeUserRepo{s}, &fakeParentLinkRepo{s})

	_, err := svc.CreateUser(context.Background(), adminPrincipal(), &CreateUserInput{
		Name: "asha", Email: "asha@school.test", Password: "secret-password", Role: enum.RoleStudent,
	})
	assertAppErrorCode(t, err, 400)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newFakeStore()
	svc := NewUserService(&fakeUserRepo{s}, &fakeParentLinkRepo{s})
	s.addUser("teacher", enum.RoleTeacher)

	_, err := svc.CreateUser(context.Background(), adminPrincipal(), &CreateUserInput{
		Name: "other", Email: "teacher@school.test", Password: "secret-password", Role: enum.RoleTeacher,
	})
	assertAppErrorCode(t, err, 409)
}

func TestParentLinkLifecycle(t *testing.T) {
	s := newFakeStore()
	svc := NewUserService(&fakeUserRepo{s}, &fakeParentLinkRepo{s})
	admin := adminPrincipal()

	parent := s.addUser("parent", enum.RoleParent)
	student := s.addStudent("asha", "5")
	teacher := s.addUser("teacher", enum.RoleTeacher)

	// Linking requires a parent-role user and a student-role user.
	_, err := svc.CreateParentLink(context.Background(), admin,
		&CreateParentLinkInput{ParentID: teacher.ID, StudentID: student.ID})
	assertAppErrorCode(t, err, 404)
	_, err = svc.CreateParentLink(context.Background(), admin,
		&CreateParentLinkInput{ParentID: parent.ID, StudentID: teacher.ID})
	assertAppErrorCode(t, err, 404)

	link, err := svc.CreateParentLink(context.Background(), admin,
		&CreateParentLinkInput{ParentID: parent.ID, StudentID: student.ID})
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}

	// Linking twice conflicts.
	_, err = svc.CreateParentLink(context.Background(), admin,
		&CreateParentLinkInput{ParentID: parent.ID, StudentID: student.ID})
	assertAppErrorCode(t, err, 409)

	if err := svc.DeleteParentLink(context.Background(), admin, link.ID); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}

	exists, _ := (&fakeParentLinkRepo{s}).Exists(context.Background(), parent.ID, student.ID)
	if exists {
		t.Fatal("link survived deletion")
	}
}

func TestLoginAndRefresh(t *testing.T) {
	s := newFakeStore()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(&fakeUserRepo{s}, jwtManager)

	hash, err := utils.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := entity.User{Name: "admin", Email: "admin@school.test", Password: hash, Role: enum.RoleAdmin}
	if err := (&fakeUserRepo{s}).Create(context.Background(), &admin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err = svc.Login(context.Background(), &LoginInput{Email: "admin@school.test", Password: "wrong"})
	assertAppErrorCode(t, err, 401)

	output, err := svc.Login(context.Background(), &LoginInput{Email: "admin@school.test", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := jwtManager.ValidateAccessToken(output.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != admin.ID || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	refreshed, err := svc.RefreshToken(context.Background(), output.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.User.ID != admin.ID {
		t.Fatal("refresh returned wrong user")
	}
}
