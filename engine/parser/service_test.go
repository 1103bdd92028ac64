package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = "../../testdata/sample_project"

func TestService_Eligible(t *testing.T) {
	svc := &Service{config: DefaultConfig()}

	t.Run("Should accept regular source files", func(t *testing.T) {
		assert.True(t, svc.Eligible("src/main/java/com/acme/App.java"))
	})

	t.Run("Should reject files without the source extension", func(t *testing.T) {
		assert.False(t, svc.Eligible("src/main/resources/app.properties"))
		assert.False(t, svc.Eligible("pom.xml"))
	})

	t.Run("Should reject files under test trees", func(t *testing.T) {
		assert.False(t, svc.Eligible("src/test/java/com/acme/AppTest.java"))
	})

	t.Run("Should reject files under build output directories", func(t *testing.T) {
		assert.False(t, svc.Eligible("target/generated/com/acme/Stub.java"))
		assert.False(t, svc.Eligible("build/com/acme/Stub.java"))
	})

	t.Run("Should match excluded segments as whole path segments", func(t *testing.T) {
		assert.True(t, svc.Eligible("src/main/java/com/acme/contest/Entry.java"))
		assert.True(t, svc.Eligible("src/main/java/com/acme/testing/Helper.java"))
	})

	t.Run("Should not exclude a file whose name matches a test segment", func(t *testing.T) {
		assert.True(t, svc.Eligible("src/main/java/com/acme/test.java"))
	})

	t.Run("Should accept test files when tests are included", func(t *testing.T) {
		config := DefaultConfig()
		config.IncludeTests = true
		inclusive := &Service{config: config}
		assert.True(t, inclusive.Eligible("src/test/java/com/acme/AppTest.java"))
	})
}

func TestService_ParseProject(t *testing.T) {
	t.Run("Should parse all eligible files sorted by relative path", func(t *testing.T) {
		svc := NewService(nil)
		result, err := svc.ParseProject(context.Background(), sampleProject, nil)
		require.NoError(t, err)

		var paths []string
		for _, file := range result.Files {
			paths = append(paths, file.Path)
		}
		assert.Equal(t, []string{
			"src/main/java/com/acme/store/Auditable.java",
			"src/main/java/com/acme/store/BaseEntity.java",
			"src/main/java/com/acme/store/Customer.java",
			"src/main/java/com/acme/store/Invoice.java",
			"src/main/java/com/acme/store/Order.java",
			"src/main/java/com/acme/store/OrderLine.java",
		}, paths)
	})

	t.Run("Should record malformed files as failed without aborting the run", func(t *testing.T) {
		svc := NewService(nil)
		result, err := svc.ParseProject(context.Background(), sampleProject, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"src/main/java/com/acme/store/Broken.java"}, result.FailedFiles)
	})

	t.Run("Should include test trees when configured", func(t *testing.T) {
		config := DefaultConfig()
		config.IncludeTests = true
		svc := NewService(config)
		result, err := svc.ParseProject(context.Background(), sampleProject, nil)
		require.NoError(t, err)

		var paths []string
		for _, file := range result.Files {
			paths = append(paths, file.Path)
		}
		assert.Contains(t, paths, "src/test/java/com/acme/store/OrderTest.java")
		assert.Len(t, result.Files, 7)
	})

	t.Run("Should attach package and class facts to each file", func(t *testing.T) {
		svc := NewService(nil)
		result, err := svc.ParseProject(context.Background(), sampleProject, nil)
		require.NoError(t, err)

		var order *FileFacts
		for _, file := range result.Files {
			if file.Path == "src/main/java/com/acme/store/Order.java" {
				order = file
			}
		}
		require.NotNil(t, order)
		assert.Equal(t, "com.acme.store", order.PackageName)
		require.Len(t, order.Classes, 1)
		assert.Equal(t, "Order", order.Classes[0].SimpleName)
		assert.Equal(t, []string{"BaseEntity"}, order.Classes[0].Supertypes)
		assert.Equal(t, []string{"Auditable"}, order.Classes[0].Interfaces)
		assert.Len(t, order.Classes[0].Methods, 5)
	})

	t.Run("Should fail on a nonexistent project path", func(t *testing.T) {
		svc := NewService(nil)
		_, err := svc.ParseProject(context.Background(), "testdata/does-not-exist", nil)
		require.Error(t, err)
	})
}

func TestService_ParseFile(t *testing.T) {
	t.Run("Should parse a single file", func(t *testing.T) {
		svc := NewService(nil)
		facts, err := svc.ParseFile(context.Background(), sampleProject+"/src/main/java/com/acme/store/Invoice.java")
		require.NoError(t, err)
		require.Len(t, facts.Classes, 1)
		assert.Equal(t, "Invoice", facts.Classes[0].SimpleName)
		assert.Len(t, facts.Classes[0].Methods, 1)
	})

	t.Run("Should surface read errors", func(t *testing.T) {
		svc := NewService(nil)
		_, err := svc.ParseFile(context.Background(), sampleProject+"/src/main/java/com/acme/store/Missing.java")
		require.Error(t, err)
	})
}
