package catalog

import "github.com/coronelbarros/storefront/pkg/enums"

// Category is a navigation entry with its landing-page copy.
type Category struct {
	ID          enums.ProductCategory `json:"id"`
	Name        string                `json:"name"`
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	Tips        []string              `json:"tips,omitempty"`
}

var categoryDetails = map[enums.ProductCategory]Category{
	enums.ProductCategoryMotor: {
		Title:       "Motores Completos e Parciais",
		Description: "Motores com baixa no DETRAN e Nota Fiscal para regularização imediata. Testados e com garantia de funcionamento de 3 meses.",
		Tips: []string{
			"Exija sempre a Nota Fiscal Eletrônica com o número do motor para o DETRAN.",
			"Verifique se o motor é parcial (bloco/cabeçote) ou completo (com periféricos).",
			"Recomendamos a troca de correias, tensores e bomba d'água antes da instalação.",
		},
	},
	enums.ProductCategoryTransmissao: {
		Title:       "Câmbios e Transmissão",
		Description: "Caixas de câmbio manuais, automáticas e automatizadas revisadas. Diferenciais, eixos cardan e kits de embreagem com garantia.",
		Tips: []string{
			"Confirme o código de referência gravado na carcaça do câmbio antes da compra.",
			"Para câmbios automáticos, é OBRIGATÓRIA a troca de óleo e filtro na instalação para validar a garantia.",
			"Verifique a compatibilidade do conversor de torque e suportes.",
		},
	},
	enums.ProductCategoryLataria: {
		Title:       "Lataria e Funilaria",
		Description: "Portas, capôs, paralamas e tampas traseiras originais. Peças com alinhamento perfeito, ideais para reposição mantendo a originalidade.",
		Tips: []string{
			"Verifique o código da cor original para facilitar a pintura.",
			"Confira se a peça acompanha vidros, fechaduras ou máquinas (geralmente vendidas à parte).",
			"Transporte de lataria exige embalagem especial (engradado de madeira).",
		},
	},
	enums.ProductCategorySuspensao: {
		Title:       "Suspensão e Freios",
		Description: "Amortecedores, balanças, eixos traseiros e agregados. Itens de segurança inspecionados rigorosamente.",
		Tips: []string{
			"Verifique se as buchas das balanças estão em bom estado ou precisam de reparo.",
			"Amortecedores usados devem ser testados quanto a vazamentos e pressão.",
			"Discos de freio têm espessura mínima de segurança; verifique a medida.",
		},
	},
	enums.ProductCategoryEletrica: {
		Title:       "Elétrica e Módulos",
		Description: "Módulos de injeção, ABS, Conforto e chicotes elétricos. Alternadores e motores de arranque testados em bancada.",
		Tips: []string{
			"Módulos (ECU) geralmente requerem reprogramação ou desbloqueio por profissional (chaveiro).",
			"Verifique a numeração Bosch/Delphi/Magneti Marelli exata.",
			"Não aceitamos devolução de módulos queimados por má instalação elétrica do veículo.",
		},
	},
	enums.ProductCategoryInterior: {
		Title:       "Acabamento Interno",
		Description: "Bancos, forros de porta, painéis e volantes. Renove o interior do seu carro com peças originais em bom estado.",
		Tips: []string{
			"Confira o padrão do tecido/couro dos bancos (ex: Tear, Couro, Tecido liso).",
			"Verifique se os airbags (se houver no painel/volante) estão intactos.",
			"Botões e difusores de ar são peças frágeis; solicite fotos detalhadas dos encaixes.",
		},
	},
}

// ListCategories returns every category in navigation order.
func ListCategories() []Category {
	cats := enums.ProductCategories()
	out := make([]Category, 0, len(cats))
	for _, id := range cats {
		out = append(out, categoryFor(id))
	}
	return out
}

// LookupCategory returns the landing-page copy for one category.
func LookupCategory(id enums.ProductCategory) (Category, bool) {
	if !id.IsValid() {
		return Category{}, false
	}
	return categoryFor(id), true
}

func categoryFor(id enums.ProductCategory) Category {
	c := categoryDetails[id]
	c.ID = id
	c.Name = id.DisplayName()
	return c
}
