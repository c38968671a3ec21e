package generator

import (
	"fmt"

	"github.com/jakoblorz/polycore/internal/models"
)

// hintsFor lists the manual follow-ups a generated module needs.
func hintsFor(name models.EntityName, variant models.Variant) []string {
	if variant != models.VariantPrisma {
		return nil
	}

	return []string{
		fmt.Sprintf("Add the %s model to prisma/schema.prisma and run `npx prisma generate`:\n\n%s",
			name.TypeName, PrismaModel(name)),
	}
}

// PrismaModel returns the schema.prisma block the generated prisma service expects.
func PrismaModel(name models.EntityName) string {
	return fmt.Sprintf(`model %s {
  id        String   @id @default(uuid())
  name      String
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt

  @@map(%q)
}`, name.TypeName, name.Plural())
}
